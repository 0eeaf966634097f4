package configstore_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/config"
	"github.com/coreman2200/ledcore/internal/configstore"
	"github.com/coreman2200/ledcore/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() *config.Document {
	return &config.Document{
		LEDCount:  4,
		TargetFPS: 60,
		Groups: map[string]config.GroupRecord{
			"main": {RangeStart: 0, RangeEnd: 4, Brightness: 1, Saturation: 1, Speed: 1, Scale: 1, PatternID: "p1"},
		},
		Functions: map[string]config.FunctionRecord{
			"p1": {Source: "x"},
		},
	}
}

func TestApplyValidDocument(t *testing.T) {
	s := configstore.New()
	patterns := pattern.NewRegistry()
	require.NoError(t, s.Apply(validDoc(), patterns))

	snap := s.Load()
	require.NotNil(t, snap)
	assert.Equal(t, 4, snap.LEDCount)
	assert.Len(t, snap.Groups, 1)
}

func TestApplyRejectsOverlap(t *testing.T) {
	s := configstore.New()
	patterns := pattern.NewRegistry()
	doc := validDoc()
	doc.Groups["second"] = config.GroupRecord{RangeStart: 2, RangeEnd: 4, PatternID: "p1"}

	err := s.Apply(doc, patterns)
	assert.Error(t, err)
	assert.Nil(t, s.Load())
}

func TestApplyRejectsUnknownPattern(t *testing.T) {
	s := configstore.New()
	patterns := pattern.NewRegistry()
	doc := validDoc()
	doc.Groups["main"] = config.GroupRecord{RangeStart: 0, RangeEnd: 4, PatternID: "nope"}

	err := s.Apply(doc, patterns)
	assert.Error(t, err)
}

func TestApplyKeepsPriorSnapshotOnFailure(t *testing.T) {
	s := configstore.New()
	patterns := pattern.NewRegistry()
	require.NoError(t, s.Apply(validDoc(), patterns))
	first := s.Load()

	bad := validDoc()
	bad.LEDCount = 0
	err := s.Apply(bad, patterns)
	assert.Error(t, err)
	assert.Same(t, first, s.Load())
}
