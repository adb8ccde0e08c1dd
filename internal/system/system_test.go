package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagePoolReturnsClearedImages(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 4, 3)

	img := p.Get(rect)
	assert.Equal(t, rect, img.Rect)
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	p.Put(img)

	again := p.Get(rect)
	for _, v := range again.Pix {
		require.Zero(t, v)
	}
	assert.GreaterOrEqual(t, p.Allocated(), int64(1))

	p.Put(nil)
	other := p.Get(image.Rect(0, 0, 2, 2))
	assert.Len(t, other.Pix, 16)
}

func TestFindLatestAudio(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.mp3", "b.WAV", "c.txt"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}

	latest, err := FindLatestAudio(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.WAV"), latest)

	_, err = FindLatestAudio(t.TempDir())
	assert.Error(t, err)
}

func TestPickEncoder(t *testing.T) {
	name, _ := pickEncoder(" V....D h264_nvenc  NVIDIA NVENC H.264 encoder")
	assert.Equal(t, "h264_nvenc", name)

	name, _ = pickEncoder(" V....D libx264")
	assert.Equal(t, "libx264", name)
}

func TestRecommendedWorkers(t *testing.T) {
	r := Resources{LogicalCPUs: 8, AvailMemory: 64 << 20}
	// 1920x1080x4 bytes x 3 buffers ~ 24 MiB per worker, 32 MiB usable
	assert.Equal(t, 1, r.RecommendedWorkers(1920, 1080, 3))

	r.AvailMemory = 16 << 30
	assert.Equal(t, 8, r.RecommendedWorkers(1920, 1080, 3))

	assert.Equal(t, 1, Resources{}.RecommendedWorkers(10, 10, 1))
}

func TestSnapshot(t *testing.T) {
	r := Snapshot()
	assert.Positive(t, r.LogicalCPUs)
	t.Logf("%s", r)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "2.0 GiB", FormatBytes(2<<30))
}
