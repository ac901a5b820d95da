package media

import (
	"net/url"
	"path"
	"strings"
)

type Kind string

const (
	KindNone    Kind = "none"
	KindYouTube Kind = "youtube"
	KindVideo   Kind = "video"
	KindIframe  Kind = "iframe"
)

// Embed says how a team's media link should be shown.
type Embed struct {
	Kind Kind   `json:"kind"`
	URL  string `json:"url,omitempty"`
}

var videoExtensions = map[string]bool{".mp4": true, ".webm": true, ".ogg": true, ".mov": true}

func Classify(link *string) Embed {
	if link == nil || strings.TrimSpace(*link) == "" {
		return Embed{Kind: KindNone}
	}
	raw := strings.TrimSpace(*link)

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Embed{Kind: KindIframe, URL: raw}
	}

	if id := youTubeID(u); id != "" {
		return Embed{Kind: KindYouTube, URL: "https://www.youtube.com/embed/" + id}
	}

	if videoExtensions[strings.ToLower(path.Ext(u.Path))] {
		return Embed{Kind: KindVideo, URL: raw}
	}

	// Anything else goes in a generic iframe
	return Embed{Kind: KindIframe, URL: raw}
}

func youTubeID(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
		for _, prefix := range []string{"/embed/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
			}
		}
	}
	return ""
}
