package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindTagsAreStable(t *testing.T) {
	assert.Equal(t, 0, int(KindText))
	assert.Equal(t, 1, int(KindImage))
	assert.Equal(t, 2, int(KindFiles))
	assert.False(t, Kind(3).Valid())
	assert.False(t, Kind(-1).Valid())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindText, KindImage, KindFiles} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, KindText, ParseKind("bogus"))
	assert.Equal(t, KindFiles, ParseKind("FILES"))
}

func TestNewTruncatesToSeconds(t *testing.T) {
	e := New("hello", KindText)
	assert.Equal(t, time.Duration(0), time.Duration(e.CapturedAt.Nanosecond()))
	assert.WithinDuration(t, time.Now(), e.CapturedAt, 2*time.Second)
}

func TestSameContentIgnoresKindAndTime(t *testing.T) {
	a := Entry{Kind: KindText, Content: "x", CapturedAt: time.Unix(1, 0)}
	b := Entry{Kind: KindFiles, Content: "x", CapturedAt: time.Unix(2, 0)}
	assert.True(t, a.SameContent(b))
	assert.False(t, a.SameContent(Entry{Content: "y"}))
}

func TestJoinSplitFiles(t *testing.T) {
	joined := JoinFiles([]string{"/a/b.txt", "", "/c d/e"})
	assert.Equal(t, "/a/b.txt;/c d/e", joined)

	assert.Equal(t, []string{"/a/b.txt", "/c d/e"}, SplitFiles(";;/a/b.txt;;/c d/e;"))
	assert.Empty(t, SplitFiles(""))

	e := Entry{Kind: KindFiles, Content: joined}
	require.Len(t, e.Files(), 2)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "line one  line two", Preview("line one\r\nline two", 0))
	assert.Equal(t, "short", Preview("short", 80))

	long := "abcdefghijklmnopqrstuvwxyz"
	got := Preview(long, 10)
	assert.Equal(t, "abcdefg...", got)

	img := Entry{Kind: KindImage, Content: ImagePlaceholder}
	assert.Equal(t, ImagePlaceholder, img.Preview(3))
}
