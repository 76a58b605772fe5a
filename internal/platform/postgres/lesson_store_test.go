package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/store"
)

func TestPostgresLessonStore_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())
	ctx := context.Background()

	lang := seedLanguage(t, db, "Spanish", "Spain", true)
	lesson := seedLesson(t, db, lang.ID, "Greetings", false, 0, func(l *domain.Lesson) {
		l.Duration = ptr(15)
		l.Level = ptr("BEGINNER")
	})

	got, err := s.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greetings", got.Title)
	assert.False(t, got.IsPublished)
	assert.Equal(t, 15, *got.Duration)
	require.NotNil(t, got.Language)
	assert.Equal(t, domain.LanguageSummary{ID: lang.ID, Name: "Spanish", Country: "Spain"}, *got.Language)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrLessonNotFound)
}

func TestPostgresLessonStore_CreateWithUnknownLanguage(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())

	lesson, err := domain.NewLesson("Orphan", uuid.New(), domain.LessonTypeVideo)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Create(context.Background(), lesson), store.ErrInvalidEntity)
}

func TestPostgresLessonStore_Update(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())
	ctx := context.Background()

	spanish := seedLanguage(t, db, "Spanish", "Spain", true)
	french := seedLanguage(t, db, "French", "France", true)
	lesson := seedLesson(t, db, spanish.ID, "Greetings", false, 0)

	lesson.LanguageID = french.ID
	lesson.IsPublished = true
	lesson.MediaURL = ptr("https://cdn.example.com/videos/x.mp4")
	lesson.Type = domain.LessonTypeVideo
	require.NoError(t, s.Update(ctx, lesson))

	got, err := s.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	assert.Equal(t, domain.LessonTypeVideo, got.Type)
	assert.Equal(t, "French", got.Language.Name)

	ghost, err := domain.NewLesson("Ghost", spanish.ID, domain.LessonTypeText)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Update(ctx, ghost), store.ErrLessonNotFound)
}

func TestPostgresLessonStore_Delete(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())
	ctx := context.Background()

	lang := seedLanguage(t, db, "Spanish", "Spain", true)
	lesson := seedLesson(t, db, lang.ID, "Greetings", true, 0)

	deleted, err := s.Delete(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, deleted.ID)
	assert.Equal(t, "Greetings", deleted.Title)
	require.NotNil(t, deleted.Language)
	assert.Equal(t, "Spanish", deleted.Language.Name)

	_, err = s.GetByID(ctx, lesson.ID)
	assert.ErrorIs(t, err, store.ErrLessonNotFound)

	_, err = s.Delete(ctx, lesson.ID)
	assert.ErrorIs(t, err, store.ErrLessonNotFound)
}

func TestPostgresLessonStore_ListAndCount(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())
	ctx := context.Background()

	spanish := seedLanguage(t, db, "Spanish", "Spain", true)
	french := seedLanguage(t, db, "French", "France", true)

	for i := 0; i < 25; i++ {
		seedLesson(t, db, spanish.ID, fmt.Sprintf("Spanish %02d", i), i%5 != 0, time.Duration(i)*time.Minute)
	}
	seedLesson(t, db, french.ID, "Bonjour", true, time.Hour, func(l *domain.Lesson) {
		l.Type = domain.LessonTypeAudio
		l.Level = ptr("BEGINNER")
		l.Description = ptr("Say hello 100% of the time")
	})
	seedLesson(t, db, french.ID, "Bonsoir_evening", true, 2*time.Hour)

	t.Run("second page newest first", func(t *testing.T) {
		filter := store.LessonFilter{LanguageID: &spanish.ID}
		page, err := s.List(ctx, filter, 10, 10)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, "Spanish 14", page[0].Title)
		assert.Equal(t, "Spanish 05", page[9].Title)
		require.NotNil(t, page[0].Language)
		assert.Equal(t, "Spanish", page[0].Language.Name)

		total, err := s.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
	})

	tests := []struct {
		name   string
		filter store.LessonFilter
		want   int64
	}{
		{"no filter", store.LessonFilter{}, 27},
		{"published only", store.LessonFilter{IsPublished: ptr(true)}, 22},
		{"unpublished only", store.LessonFilter{IsPublished: ptr(false)}, 5},
		{"by type", store.LessonFilter{Type: ptr(domain.LessonTypeAudio)}, 1},
		{"by level", store.LessonFilter{Level: ptr("BEGINNER")}, 1},
		{"search title case-insensitive", store.LessonFilter{Search: "BONJ"}, 1},
		{"search description", store.LessonFilter{Search: "hello"}, 1},
		{"percent is literal", store.LessonFilter{Search: "100%"}, 1},
		{"underscore is literal", store.LessonFilter{Search: "r_e"}, 1},
		{"lone percent matches nothing extra", store.LessonFilter{Search: "%"}, 1},
		{"combined", store.LessonFilter{LanguageID: &french.ID, Search: "bon"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)

			rows, err := s.List(ctx, tt.filter, 0, 100)
			require.NoError(t, err)
			assert.Len(t, rows, int(tt.want))
		})
	}
}

func TestPostgresLessonStore_PublishedByLanguage(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())
	ctx := context.Background()

	lang := seedLanguage(t, db, "Spanish", "Spain", true)
	seedLesson(t, db, lang.ID, "Second", true, 2*time.Minute)
	seedLesson(t, db, lang.ID, "First", true, time.Minute)
	seedLesson(t, db, lang.ID, "Hidden", false, 3*time.Minute)

	oldest, err := s.ListPublishedByLanguage(ctx, lang.ID, store.OldestFirst, 0)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, "First", oldest[0].Title)
	assert.Equal(t, "Second", oldest[1].Title)

	newest, err := s.ListPublishedByLanguage(ctx, lang.ID, store.NewestFirst, 1)
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, "Second", newest[0].Title)

	all, err := s.CountByLanguage(ctx, lang.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all)

	published, err := s.CountByLanguage(ctx, lang.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), published)
}

func TestPostgresLessonStore_Stats(t *testing.T) {
	db := newTestDB(t)
	s := NewPostgresLessonStore(db, discardLogger())
	ctx := context.Background()

	lang := seedLanguage(t, db, "Spanish", "Spain", true)
	beginner := func(l *domain.Lesson) { l.Level = ptr("BEGINNER") }
	seedLesson(t, db, lang.ID, "A", true, 0, beginner, func(l *domain.Lesson) { l.Duration = ptr(10) })
	seedLesson(t, db, lang.ID, "B", true, 1, beginner, func(l *domain.Lesson) { l.Duration = ptr(20) })
	seedLesson(t, db, lang.ID, "C", true, 2, beginner, func(l *domain.Lesson) { l.Type = domain.LessonTypeVideo })
	seedLesson(t, db, lang.ID, "D", false, 3, func(l *domain.Lesson) { l.Duration = ptr(100) })

	n, err := s.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	total, err := s.SumPublishedDuration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)

	breakdown, err := s.PublishedBreakdown(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.LessonBreakdown{
		{Level: ptr("BEGINNER"), Type: domain.LessonTypeText, Count: 2},
		{Level: ptr("BEGINNER"), Type: domain.LessonTypeVideo, Count: 1},
	}, breakdown)
}

func TestPostgresLessonStore_SumDurationEmpty(t *testing.T) {
	db := newTestDB(t)
	total, err := NewPostgresLessonStore(db, discardLogger()).SumPublishedDuration(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ ok`, escapeLike(`50% off_now \ ok`))
}
