package models

// Captcha is the challenge returned by the captcha endpoint: an opaque id
// plus the challenge image as a data URI.
type Captcha struct {
	CaptchaID string `json:"captchaId"`
	Base64Str string `json:"base64Str"`
}

// LoginResult is the payload of a successful login call.
type LoginResult struct {
	// Token authenticates every subsequent request.
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

// UserInfo describes the account owning the current session.
type UserInfo struct {
	UserName string `json:"userName"`
}
