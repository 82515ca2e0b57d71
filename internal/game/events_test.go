package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quizstorm/internal/model"
)

func TestQuestionView_Media(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		mediaType model.MediaType
		want      *Media
	}{
		{"image", "https://cdn/q.png", model.MediaImage, &Media{URL: "https://cdn/q.png", Type: model.MediaImage}},
		{"video", "https://cdn/q.mp4", model.MediaVideo, &Media{URL: "https://cdn/q.mp4", Type: model.MediaVideo}},
		{"none", "https://cdn/q.png", model.MediaNone, nil},
		{"missing type", "https://cdn/q.png", "", nil},
		{"missing url", "", model.MediaImage, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &model.Question{Text: "q", Options: []string{"a", "b"}, MediaURL: tt.url, MediaType: tt.mediaType}
			v := questionView(q, 1, 5, 20)

			assert.Equal(t, tt.want, v.Media)
			assert.Equal(t, 1, v.Index)
			assert.Equal(t, 5, v.Total)
			assert.Equal(t, 20, v.TimeLimitSeconds)
		})
	}
}
