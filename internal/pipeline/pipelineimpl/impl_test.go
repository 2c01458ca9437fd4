package pipelineimpl

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/orgball2608/deface/internal/archive"
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/export"
	mock_export "github.com/orgball2608/deface/internal/export/mocks"
	"github.com/orgball2608/deface/internal/pipeline"
	mock_telegram "github.com/orgball2608/deface/internal/telegram/mocks"
	"github.com/orgball2608/deface/pkg/config"
	apperrors "github.com/orgball2608/deface/pkg/errors"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type loaderFunc func(ctx context.Context, files []string) ([]archive.Batch, error)

func (f loaderFunc) Load(ctx context.Context, files []string) ([]archive.Batch, error) {
	return f(ctx, files)
}

func strPtr(s string) *string { return &s }

var (
	files   = []string{"a.json", "b.json", "c.json"}
	created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	batches = []archive.Batch{
		{
			File: "a.json",
			Raw:  3,
			Posts: []domain.Post{
				{Timestamp: 1, Body: strPtr("a")},
				{Timestamp: 2, Body: strPtr("b")},
			},
			Errors: []error{apperrors.Invalid("a.json[2] is not an object")},
		},
		{File: "b.json", Err: errors.New("failed to read b.json: permission denied")},
		{
			File: "c.json",
			Raw:  2,
			Posts: []domain.Post{
				{Timestamp: 2, Body: strPtr("c")},
				{Timestamp: 1, Body: strPtr("a"), Title: strPtr("Alice updated her status.")},
			},
		},
	}
	want = []domain.Post{
		{Timestamp: 1, Body: strPtr("a"), Title: strPtr("Alice updated her status.")},
		{Timestamp: 2, Body: strPtr("b")},
		{Timestamp: 2, Body: strPtr("c")},
	}
)

func newPipeline(t *testing.T, load loaderFunc, sinks ...export.Sink) *PipelineImpl {
	t.Helper()
	cfg := &config.Config{}
	cfg.Schedule.TimeZone = "UTC"
	p := New(Opts{
		Config: cfg,
		Logger: logger.New(logger.Opts{Output: io.Discard}),
		Loader: load,
		Sinks:  sinks,
	})
	p.now = func() time.Time { return created }
	return p
}

func fixed(context.Context, []string) ([]archive.Batch, error) {
	return batches, nil
}

func newSink(ctrl *gomock.Controller, name string) *mock_export.MockSink {
	sink := mock_export.NewMockSink(ctrl)
	sink.EXPECT().Name().Return(name).AnyTimes()
	return sink
}

func TestRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := newSink(ctrl, "writer:json")
	notifier := mock_telegram.NewMockClient(ctrl)

	p := newPipeline(t, fixed, sink)
	p.Notifier = notifier

	var (
		emitted  domain.ExportRun
		timeline []domain.Post
	)
	sink.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run domain.ExportRun, posts []domain.Post) error {
			emitted, timeline = run, posts
			return nil
		})
	notifier.EXPECT().SendMessageToUser(gomock.Any(),
		"Processed 3 files with 5 raw posts, including 1 malformed one;\n"+
			"yielded 3 cleaned posts, including 2 that share 1 timestamps with other posts.",
	).Return(nil)

	report, err := p.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, pipeline.Report{
		Run:          emitted,
		Files:        3,
		Unreadable:   1,
		Raw:          5,
		Malformed:    1,
		Posts:        3,
		Simultaneous: 2,
		Timestamps:   1,
	}, report)
	assert.Empty(t, cmp.Diff(want, timeline, cmpopts.EquateEmpty()))
	assert.Equal(t, files, emitted.Files)
	assert.Equal(t, 3, emitted.Posts)
	assert.Equal(t, created, emitted.CreatedAt)
	assert.NotZero(t, emitted.ID)
}

func TestRunKeepsConflictingExportsApart(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := newSink(ctrl, "writer:none")
	sink.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	photo := func(title string) domain.Media {
		return domain.Media{MediaType: domain.Photo, URI: "photo.jpg", Title: strPtr(title)}
	}
	load := loaderFunc(func(context.Context, []string) ([]archive.Batch, error) {
		return []archive.Batch{{
			File: "a.json",
			Raw:  2,
			Posts: []domain.Post{
				{Timestamp: 1, Media: []domain.Media{photo("one")}},
				{Timestamp: 1, Media: []domain.Media{photo("two")}},
			},
		}}, nil
	})

	report, err := newPipeline(t, load, sink).Run(context.Background(), []string{"a.json"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Posts)
	assert.Equal(t, 0, report.Malformed)
	assert.Equal(t, 1, report.Timestamps)
}

func TestRunEmitsToEverySink(t *testing.T) {
	ctrl := gomock.NewController(t)
	stdout := newSink(ctrl, "writer:ndjson")
	postgres := newSink(ctrl, "postgres")

	var calls atomic.Int32
	emit := func(_ context.Context, _ domain.ExportRun, posts []domain.Post) error {
		if len(posts) == len(want) {
			calls.Add(1)
		}
		return nil
	}
	stdout.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(emit)
	postgres.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(emit)

	_, err := newPipeline(t, fixed, stdout, postgres).Run(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunFailsWhenASinkFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	stdout := newSink(ctrl, "writer:ndjson")
	postgres := newSink(ctrl, "postgres")
	failure := errors.New("database is down")

	stdout.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	postgres.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure)

	p := newPipeline(t, fixed, stdout, postgres)
	p.Notifier = mock_telegram.NewMockClient(ctrl)

	_, err := p.Run(context.Background(), files)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "postgres")
}

func TestRunCollectsRejectedSinks(t *testing.T) {
	ctrl := gomock.NewController(t)
	slow := newSink(ctrl, "postgres")
	rejected := newSink(ctrl, "writer:json")
	failure := errors.New("database is down")

	slow.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.ExportRun, []domain.Post) error {
			time.Sleep(20 * time.Millisecond)
			return failure
		})

	p := newPipeline(t, fixed, slow, rejected)
	p.newPool = func(int) (*ants.Pool, error) {
		return ants.NewPool(1, ants.WithNonblocking(true))
	}

	_, err := p.Run(context.Background(), files)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.ErrorIs(t, err, ants.ErrPoolOverload)
	assert.Contains(t, err.Error(), "failed to submit writer:json")
}

func TestRunFailsWhenLoadingIsCancelled(t *testing.T) {
	load := loaderFunc(func(ctx context.Context, _ []string) ([]archive.Batch, error) {
		return nil, context.Canceled
	})

	_, err := newPipeline(t, load).Run(context.Background(), files)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunIgnoresNotificationFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock_telegram.NewMockClient(ctrl)
	notifier.EXPECT().SendMessageToUser(gomock.Any(), gomock.Any()).Return(errors.New("bot blocked"))

	p := newPipeline(t, fixed)
	p.Notifier = notifier

	report, err := p.Run(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Posts)
}

func TestScheduleRejectsBadCron(t *testing.T) {
	p := newPipeline(t, fixed)
	err := p.Schedule(context.Background(), "not a cron", files)
	assert.Error(t, err)
}

func TestScheduleRuns(t *testing.T) {
	var runs atomic.Int32
	load := loaderFunc(func(context.Context, []string) ([]archive.Batch, error) {
		runs.Add(1)
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newPipeline(t, load)
	require.NoError(t, p.Schedule(ctx, "* * * * * *", files))

	assert.Eventually(t, func() bool {
		return runs.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
