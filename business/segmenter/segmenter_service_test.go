package segmenter

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"audienceLab/domain"
)

func assertTiling(t *testing.T, segments []domain.ContentSegment, duration float64) {
	t.Helper()

	if len(segments) == 0 {
		t.Fatal("no segments produced")
	}
	if segments[0].StartSec != 0 {
		t.Fatalf("first segment starts at %v, want 0", segments[0].StartSec)
	}
	if math.Abs(segments[len(segments)-1].EndSec-duration) > 1e-9 {
		t.Fatalf("last segment ends at %v, want %v", segments[len(segments)-1].EndSec, duration)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].StartSec != segments[i-1].EndSec {
			t.Fatalf("gap or overlap at segment %d: %v -> %v",
				i, segments[i-1].EndSec, segments[i].StartSec)
		}
		if segments[i].Index != i {
			t.Fatalf("segment %d carries index %d", i, segments[i].Index)
		}
	}
}

func TestSegmentTilesExactly(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())

	for _, duration := range []float64{5, 29, 30, 31, 127.5, 600} {
		segments, err := svc.Segment(domain.VideoContent{ID: "v", DurationSec: duration})
		if err != nil {
			t.Fatalf("Segment(%v): %v", duration, err)
		}
		assertTiling(t, segments, duration)

		for _, seg := range segments {
			if seg.DurationSec() > DefaultConfig().MaxSegmentSec+1e-9 {
				t.Fatalf("segment %d length %v exceeds max", seg.Index, seg.DurationSec())
			}
		}
	}
}

func TestSegmentEmptyVideo(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())

	for _, duration := range []float64{0, -1} {
		_, err := svc.Segment(domain.VideoContent{ID: "v", DurationSec: duration})
		if err == nil {
			t.Fatalf("Segment(%v) succeeded on empty video", duration)
		}
		var empty *domain.EmptyVideoError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyVideoError, got %T: %v", err, err)
		}
	}
}

func TestSegmentSnapsToScenes(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())

	video := domain.VideoContent{
		ID:          "v",
		DurationSec: 60,
		Scenes: []domain.SceneMarker{
			{TimestampSec: 0, Topics: []string{"intro"}},
			{TimestampSec: 20, Topics: []string{"generics"}},
			{TimestampSec: 45, Topics: []string{"wrap-up"}},
		},
	}

	segments, err := svc.Segment(video)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	assertTiling(t, segments, 60)

	cutAt := func(ts float64) bool {
		for _, seg := range segments {
			if seg.StartSec == ts {
				return true
			}
		}
		return false
	}
	if !cutAt(20) || !cutAt(45) {
		t.Fatalf("scene markers not honored as boundaries: %+v", segments)
	}

	// topics come from the scene in effect at the segment start
	for _, seg := range segments {
		if seg.StartSec >= 20 && seg.StartSec < 45 {
			if len(seg.Topics) != 1 || seg.Topics[0] != "generics" {
				t.Fatalf("segment at %v has topics %v", seg.StartSec, seg.Topics)
			}
		}
	}
}

func TestSegmentMergesShortScenes(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())

	// 20.5 is within MinSegmentSec of the 20 marker and must be absorbed
	video := domain.VideoContent{
		ID:          "v",
		DurationSec: 40,
		Scenes: []domain.SceneMarker{
			{TimestampSec: 20},
			{TimestampSec: 20.5},
		},
	}

	segments, err := svc.Segment(video)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	assertTiling(t, segments, 40)

	for _, seg := range segments {
		if seg.DurationSec() < DefaultConfig().MinSegmentSec-1e-9 {
			t.Fatalf("segment %d shorter than minimum: %v", seg.Index, seg.DurationSec())
		}
	}
}

func TestSegmentHookWindows(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())

	segments, err := svc.Segment(domain.VideoContent{ID: "v", DurationSec: 120})
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	for _, seg := range segments {
		if got, want := seg.FirstHook, seg.StartSec < 3; got != want {
			t.Fatalf("segment at %v: FirstHook=%v", seg.StartSec, got)
		}
		if got, want := seg.ValueClarity, seg.StartSec < 10; got != want {
			t.Fatalf("segment at %v: ValueClarity=%v", seg.StartSec, got)
		}
		if got, want := seg.Commitment, seg.StartSec < 30; got != want {
			t.Fatalf("segment at %v: Commitment=%v", seg.StartSec, got)
		}
	}
}

func TestComplexityFromHints(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())

	plain := domain.VideoContent{
		ID:          "plain",
		DurationSec: 30,
		Scenes: []domain.SceneMarker{
			{TimestampSec: 0, VisualComplexity: 0.1, TalkingHead: true},
		},
	}
	dense := domain.VideoContent{
		ID:          "dense",
		DurationSec: 30,
		Scenes: []domain.SceneMarker{
			{TimestampSec: 0, VisualComplexity: 0.9, CodeOnScreen: true},
		},
		Transcript: []domain.TranscriptWindow{
			{StartSec: 0, EndSec: 30, WordCount: 120},
		},
	}

	plainSegs, err := svc.Segment(plain)
	if err != nil {
		t.Fatalf("Segment(plain): %v", err)
	}
	denseSegs, err := svc.Segment(dense)
	if err != nil {
		t.Fatalf("Segment(dense): %v", err)
	}

	if denseSegs[0].Complexity <= plainSegs[0].Complexity {
		t.Fatalf("dense content scored %v, plain %v", denseSegs[0].Complexity, plainSegs[0].Complexity)
	}
	for _, seg := range append(plainSegs, denseSegs...) {
		if seg.Complexity < 0 || seg.Complexity > 1 {
			t.Fatalf("complexity out of range: %v", seg.Complexity)
		}
		if seg.Pacing < 0 || seg.Pacing > 1 {
			t.Fatalf("pacing out of range: %v", seg.Pacing)
		}
	}
}

func TestSegmentDeterministic(t *testing.T) {
	svc := NewSegmenterService(DefaultConfig())
	video := domain.VideoContent{
		ID:          "v",
		DurationSec: 300,
		Scenes: []domain.SceneMarker{
			{TimestampSec: 0, Topics: []string{"intro"}},
			{TimestampSec: 90, Topics: []string{"body"}, CodeOnScreen: true},
		},
		Transcript: []domain.TranscriptWindow{
			{StartSec: 0, EndSec: 300, WordCount: 700},
		},
	}

	a, err := svc.Segment(video)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	b, err := svc.Segment(video)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated segmentation of the same video differs")
	}
}
