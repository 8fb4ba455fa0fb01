package api

import "time"

type loginRequest struct {
	User string `json:"user"`

	// Secret and Password are aliases; clients may send either field.
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

func (r loginRequest) secret() string {
	if r.Secret != "" {
		return r.Secret
	}
	return r.Password
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type measurementBody struct {
	Weight float64 `json:"weight"`
}

type seriesColumns struct {
	Dates   []string  `json:"dates"`
	Weights []float64 `json:"weights"`
}

type seriesResponse struct {
	Raw     seriesColumns `json:"raw"`
	Average seriesColumns `json:"average"`
}
