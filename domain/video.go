package domain

// SceneMarker is a raw scene/topic boundary supplied by the capture side.
type SceneMarker struct {
	TimestampSec     float64  `json:"timestamp_sec"`
	Topics           []string `json:"topics,omitempty"`
	VisualComplexity float64  `json:"visual_complexity"` // [0,1] hint, 0 when unknown
	CodeOnScreen     bool     `json:"code_on_screen"`
	TalkingHead      bool     `json:"talking_head"`
}

// TranscriptWindow is an optional word-rate sample over a span of the timeline.
type TranscriptWindow struct {
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
	WordCount int     `json:"word_count"`
}

// VideoContent is the descriptor handed over by the external capture/encoding
// collaborator. Scene markers and transcript are optional; without them the
// segmenter falls back to fixed-length windows.
type VideoContent struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	DurationSec float64            `json:"duration_sec"`
	Scenes      []SceneMarker      `json:"scenes,omitempty"`
	Transcript  []TranscriptWindow `json:"transcript,omitempty"`
}

// TitleThumbnail is the pre-click metadata feature set consumed only by the
// CTR sub-model. All feature values are expected in [0,1] except word counts.
type TitleThumbnail struct {
	TitleWords        int     `json:"title_words"`
	TitleHasNumber    bool    `json:"title_has_number"`
	TitleHasQuestion  bool    `json:"title_has_question"`
	TitleCapsRatio    float64 `json:"title_caps_ratio"`
	ThumbBrightness   float64 `json:"thumb_brightness"`
	ThumbHasFace      bool    `json:"thumb_has_face"`
	ThumbTextDensity  float64 `json:"thumb_text_density"`
	ThumbColorContrast float64 `json:"thumb_color_contrast"`
}

// ContentSegment is an analyzable span of the timeline. Segments produced for
// a video tile [0, duration) exactly, ordered by start, and are immutable.
type ContentSegment struct {
	Index    int      `json:"index"`
	StartSec float64  `json:"start_sec"`
	EndSec   float64  `json:"end_sec"`
	Topics   []string `json:"topics,omitempty"`

	Complexity float64 `json:"complexity"` // [0,1]
	Pacing     float64 `json:"pacing"`     // [0,1], 0.5 = neutral

	// hook windows, each independently queryable downstream
	FirstHook    bool `json:"first_hook"`    // touches the first 3s
	ValueClarity bool `json:"value_clarity"` // touches the first 10s
	Commitment   bool `json:"commitment"`    // touches the first 30s
}

// DurationSec is the segment length in seconds.
func (s ContentSegment) DurationSec() float64 {
	return s.EndSec - s.StartSec
}
