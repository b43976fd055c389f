package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want Mode
		kw   string
	}{
		{"do you have any similar shirts", Similar, "similar"},
		{"what goes with this", Complementary, "goes with"},
		{"", Complementary, ""},
		{"   ", Complementary, ""},
		{"\t\n", Complementary, ""},
		{"Show me this in a Different Color", Similar, "different color"},
		{"what shoes would complete the look", Complementary, "complete the look"},
		{"I need an outfit for a wedding", Complementary, "outfit"},
		{"nice jacket", Similar, ""},
		// similar 列表优先于 complementary 列表
		{"matching outfit please", Similar, "matching"},
		{"anything that goes with the same vibe", Similar, "same"},
		// 列表内按顺序，"similar" 在 "similar to" 之前
		{"something similar to this", Similar, "similar"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			mode, kw := Match(tt.msg)
			assert.Equal(t, tt.want, mode)
			assert.Equal(t, tt.kw, kw)
			assert.Equal(t, tt.want, Classify(tt.msg))
		})
	}
}

func TestKeywordsCopy(t *testing.T) {
	kws := Keywords(Similar)
	kws[0] = "changed"
	assert.Equal(t, "similar", Keywords(Similar)[0])
	assert.Len(t, Keywords(Complementary), 11)
	assert.Nil(t, Keywords("other"))
}
