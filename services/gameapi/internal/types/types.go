package types

import "github.com/lightgame/panel/internal/access"

type (
	AuthLoginRequest struct {
		Name     string `json:"name,optional"`
		Password string `json:"password,optional"`
	}

	AuthLoginResponse struct {
		Token string `json:"token"`
	}

	UserInfo struct {
		ID     int          `json:"id"`
		Name   string       `json:"name"`
		Access access.Level `json:"access"`
	}

	UserMeResponse struct {
		User UserInfo `json:"user"`
	}

	ResourceIDRequest struct {
		ID int `path:"id"`
	}

	StatusResponse struct {
		Status string `json:"status"`
	}

	// ErrorResponse is the rejection shape every endpoint uses.
	ErrorResponse struct {
		Msg    string            `json:"msg"`
		Status string            `json:"status"`
		Errors map[string]string `json:"errors,omitempty"`
	}
)
