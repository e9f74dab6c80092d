package model

import "strings"

// Region is the structured pick produced by a region selector. Sido and
// Sigungu are mandatory for a complete selection; Dong is optional.
type Region struct {
	Sido    string `json:"sido" yaml:"sido"`
	Sigungu string `json:"sigungu" yaml:"sigungu"`
	Dong    string `json:"dong,omitempty" yaml:"dong,omitempty"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
}

// Complete reports whether the mandatory parts of the region are present.
func (r Region) Complete() bool {
	return strings.TrimSpace(r.Sido) != "" && strings.TrimSpace(r.Sigungu) != ""
}

// String joins the non-empty region parts with a single space, e.g.
// "서울특별시 강남구 역삼동".
func (r Region) String() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.Sido, r.Sigungu, r.Dong} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// FileRef describes a file picked for a FILE question. Only metadata travels
// with the answer; the bytes are handled by the caller.
type FileRef struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// ShortToken returns a log-safe prefix of a share token.
func ShortToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "…"
}
