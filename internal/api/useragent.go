package api

import (
	"hash/fnv"
	"os"
	"os/user"
)

// userAgents are the browser identities the platform's own web client is
// known to accept. One of them is picked per machine, not per run, so the
// session does not look like it hops between devices.
var userAgents = []string{
	"Mozilla/5.0 (Android 10; Mobile; rv:89.0) Gecko/89.0 Firefox/89.0",
	"Mozilla/5.0 (Linux; Android 9; ASUS_X00TD; Flow) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/359.0.0.288 Mobile Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.0.3 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (X11; Linux i686; rv:114.0) Gecko/20100101 Firefox/114.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 11_0_0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.88 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.1052.53 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36 Edg/135.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:136.0) Gecko/20100101 Firefox/136.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 SLBrowser/9.0.6.2081 SLBChan/8 SLBVPV/64-bit",
}

// GenerateUserAgent picks a User-Agent deterministically from the current
// username and working directory.
func GenerateUserAgent() string {
	h := fnv.New32a()

	if u, err := user.Current(); err == nil {
		_, _ = h.Write([]byte(u.Username))
	}
	if wd, err := os.Getwd(); err == nil {
		_, _ = h.Write([]byte(wd))
	}

	return userAgents[int(h.Sum32())%len(userAgents)]
}
