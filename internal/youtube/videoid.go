package youtube

import (
	"errors"
	"regexp"
)

var ErrInvalidURL = errors.New("not a recognised YouTube URL or video ID")

// Tried in order; the first match wins.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

var bareVideoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID returns the video identifier addressed by a watch, short,
// embed or /v/ URL, or the input itself when it already is a bare 11 character ID.
func ExtractVideoID(input string) (string, bool) {
	for _, pattern := range videoURLPatterns {
		if match := pattern.FindStringSubmatch(input); len(match) > 1 {
			return match[1], true
		}
	}

	if bareVideoIDPattern.MatchString(input) {
		return input, true
	}

	return "", false
}

func IsValidURL(input string) bool {
	_, ok := ExtractVideoID(input)
	return ok
}

// ParseVideoID is ExtractVideoID for callers that propagate errors.
func ParseVideoID(input string) (string, error) {
	id, ok := ExtractVideoID(input)
	if !ok {
		return "", ErrInvalidURL
	}
	return id, nil
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}
