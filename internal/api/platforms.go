package api

import "strings"

// Platform is one deployment of the training service.
type Platform struct {
	Code    string
	BaseURL string
}

// platforms lists the known deployments in presentation order.
var platforms = []Platform{
	{Code: "USTB_GFJY", BaseURL: "https://gfjy.ustb.edu.cn"},
	{Code: "USTB_DXPX", BaseURL: "https://dxpx.ustb.edu.cn"},
}

// Platforms returns the known deployments in a stable order.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// PlatformByCode looks a deployment up by its code, case-insensitively.
func PlatformByCode(code string) (Platform, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, p := range platforms {
		if p.Code == code {
			return p, true
		}
	}
	return Platform{}, false
}
