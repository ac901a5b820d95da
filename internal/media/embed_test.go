package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		link     *string
		expected Embed
	}{
		{name: "nil", link: nil, expected: Embed{Kind: KindNone}},
		{name: "blank", link: ptr("  "), expected: Embed{Kind: KindNone}},
		{
			name:     "watch link with extra params",
			link:     ptr("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42"),
			expected: Embed{Kind: KindYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "short link",
			link:     ptr("https://youtu.be/dQw4w9WgXcQ?si=abc"),
			expected: Embed{Kind: KindYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "already an embed",
			link:     ptr("https://www.youtube.com/embed/dQw4w9WgXcQ"),
			expected: Embed{Kind: KindYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "youtube channel page",
			link:     ptr("https://www.youtube.com/@ncaa"),
			expected: Embed{Kind: KindIframe, URL: "https://www.youtube.com/@ncaa"},
		},
		{
			name:     "video file",
			link:     ptr("https://cdn.example.com/clips/Buzzer.MP4"),
			expected: Embed{Kind: KindVideo, URL: "https://cdn.example.com/clips/Buzzer.MP4"},
		},
		{
			name:     "anything else",
			link:     ptr("https://example.com/team"),
			expected: Embed{Kind: KindIframe, URL: "https://example.com/team"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.link))
		})
	}
}

func ptr(s string) *string { return &s }
