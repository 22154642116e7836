package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowerstore-directory/config"
	"flowerstore-directory/models"
	"flowerstore-directory/services"
	"flowerstore-directory/storage"
	"flowerstore-directory/ui"
	"flowerstore-directory/utils"
)

const rawCSV = `hfpxzc href,qBF1Pd,評分,評分數,,UsdlK,FQ2IWe src
https://m/a,花語花坊,4.8,"(1,024)",新北市板橋區文化路一段1號,02 2951 0000,
https://m/b,森林花藝,4.5,88,新北市中和區景平路2號,,
`

func testApp() *app {
	return &app{cfg: config.FromEnv(), logger: utils.NewNopLogger()}
}

func TestConvertWritesDataset(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "raw.csv")
	dst := filepath.Join(dir, "out", "flowerstores.json")
	require.NoError(t, os.WriteFile(src, []byte(rawCSV), 0o644))

	require.NoError(t, testApp().convert(context.Background(), src, dst, false))

	records, err := storage.NewDatasetLoader(dst).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "花語花坊", records[0]["name"])
	assert.Equal(t, "板橋區", records[0]["district"])
	assert.EqualValues(t, 1024, records[0]["reviews"])
}

func TestConvertHeaderOnlyCSV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "raw.csv")
	dst := filepath.Join(dir, "flowerstores.json")
	require.NoError(t, os.WriteFile(src, []byte(strings.SplitN(rawCSV, "\n", 2)[0]+"\n"), 0o644))

	require.NoError(t, testApp().convert(context.Background(), src, dst, true))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	d, err := ui.Load(context.Background(), storage.NewDatasetLoader(dst), services.NewNormalizer(utils.NewNopLogger()), 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	ui.NewRenderer(&buf, false).RenderView(d.Current())
	assert.Contains(t, buf.String(), "no matching stores")
	assert.NotContains(t, buf.String(), ui.LoadFailedMessage)
}

func TestConvertMissingSource(t *testing.T) {
	err := testApp().convert(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "x.json", false)
	assert.ErrorIs(t, err, storage.ErrSourceNotFound)
}

func TestBrowseInteractiveRendersLastKeyword(t *testing.T) {
	stores := []*models.Store{
		{ID: 0, Name: "花語花坊", Rating: 4.8, District: "板橋區", MapURL: "#"},
		{ID: 1, Name: "森林花藝", Rating: 4.5, District: "中和區", MapURL: "#"},
	}
	dir := ui.NewDirectory(stores, time.Hour)
	var buf bytes.Buffer

	in := strings.NewReader("花\n森\n  森林  \n")
	require.NoError(t, browseInteractive(context.Background(), dir, ui.NewRenderer(&buf, false), in))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "🌷"), "burst collapses into one render")
	assert.Contains(t, out, `keyword="森林"`)
	assert.Contains(t, out, "森林花藝")
	assert.NotContains(t, out, "花語花坊")
}

func TestRunWatchLoopDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "raw.csv")

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- runWatchLoop(ctx, w, target, utils.NewDebouncer(50*time.Millisecond),
			func() { changes <- struct{}{} }, utils.NewNopLogger())
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte(rawCSV), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change callback after writes to the watched file")
	}
	time.Sleep(150 * time.Millisecond)
	assert.Len(t, changes, 0, "writes in one burst trigger a single callback")

	cancel()
	assert.NoError(t, <-done)
}

type memWriter struct {
	stores []*models.Store
	places []*models.ScrapedPlace
	closed bool
}

func (m *memWriter) Write(_ context.Context, stores []*models.Store) error {
	m.stores = append(m.stores, stores...)
	return nil
}

func (m *memWriter) WriteScraped(places []*models.ScrapedPlace) error {
	m.places = append(m.places, places...)
	return nil
}

func (m *memWriter) Close() error {
	m.closed = true
	return nil
}

func TestPublishRejectsEmptySet(t *testing.T) {
	w := &memWriter{}
	assert.Error(t, publish(context.Background(), w, nil))

	require.NoError(t, publish(context.Background(), w, []*models.Store{{Name: "a"}}))
	assert.Len(t, w.stores, 1)
}

func TestSaveScrapedClosesWriter(t *testing.T) {
	w := &memWriter{}
	require.NoError(t, saveScraped(w, []*models.ScrapedPlace{{Name: "a"}, {Name: "b"}}))
	assert.Len(t, w.places, 2)
	assert.True(t, w.closed)
}
