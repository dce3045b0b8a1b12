package eds

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kailas-cloud/edsapi/internal/domain"
)

// errorPayload covers both error shapes: the authentication service's
// ErrorCode/Reason/AdditionalDetail and the search service's
// ErrorNumber/ErrorDescription/DetailedErrorDescription.
type errorPayload struct {
	ErrorCode        *flexInt `json:"ErrorCode"`
	Reason           string   `json:"Reason"`
	AdditionalDetail string   `json:"AdditionalDetail"`

	ErrorNumber              *flexInt `json:"ErrorNumber"`
	ErrorDescription         string   `json:"ErrorDescription"`
	DetailedErrorDescription string   `json:"DetailedErrorDescription"`
}

// parseAPIError returns the recognized error in data, or nil.
func parseAPIError(data []byte, status int) *domain.APIError {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var p errorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	switch {
	case p.ErrorNumber != nil:
		return &domain.APIError{
			Code:                int(*p.ErrorNumber),
			Description:         p.ErrorDescription,
			DetailedDescription: p.DetailedErrorDescription,
			HTTPStatus:          status,
		}
	case p.ErrorCode != nil:
		return &domain.APIError{
			Code:                int(*p.ErrorCode),
			Description:         p.Reason,
			DetailedDescription: p.AdditionalDetail,
			HTTPStatus:          status,
		}
	default:
		return nil
	}
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err //nolint:wrapcheck // surfaced through json.Unmarshal
	}
	*f = flexInt(n)
	return nil
}
