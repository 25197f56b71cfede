package replay

import "fmt"

type ReplayError struct {
	Frame   int    `json:"frame"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(frame=%d reason=%s): %s", e.Frame, e.Reason, e.Message)
}
