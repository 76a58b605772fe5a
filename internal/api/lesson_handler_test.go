package api

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lingua-labs/lingua-api/internal/api/shared"
	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/export"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/mocks"
	"github.com/lingua-labs/lingua-api/internal/service"
	"github.com/lingua-labs/lingua-api/internal/store"
)

type lessonHandlerFixture struct {
	lessons   *mocks.MockLessonStore
	languages *mocks.MockLanguageStore
	uploader  *mocks.MockUploader
	language  *domain.Language
	handler   *LessonHandler

	mu    sync.Mutex
	saved map[uuid.UUID]*domain.Lesson
}

func newLessonHandlerFixture(t *testing.T) *lessonHandlerFixture {
	t.Helper()
	f := &lessonHandlerFixture{
		lessons:   &mocks.MockLessonStore{},
		languages: &mocks.MockLanguageStore{},
		uploader:  &mocks.MockUploader{},
		language:  &domain.Language{ID: uuid.New(), Name: "Italian", Country: "Italy", IsActive: true},
		saved:     map[uuid.UUID]*domain.Lesson{},
	}
	f.languages.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.Language, error) {
		if id == f.language.ID {
			return f.language, nil
		}
		return nil, store.ErrLanguageNotFound
	}
	f.lessons.CreateFn = func(_ context.Context, l *domain.Lesson) error { return f.put(l) }
	f.lessons.UpdateFn = func(_ context.Context, l *domain.Lesson) error { return f.put(l) }
	f.lessons.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		l, ok := f.saved[id]
		if !ok {
			return nil, store.ErrLessonNotFound
		}
		cp := *l
		cp.Language = &domain.LanguageSummary{ID: f.language.ID, Name: f.language.Name, Country: f.language.Country}
		return &cp, nil
	}

	svc, err := service.NewLessonService(f.lessons, f.languages, f.uploader, discardLogger())
	require.NoError(t, err)
	f.handler = NewLessonHandler(svc, testMaxUpload, discardLogger())
	f.handler.now = func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { f.uploader.AssertExpectations(t) })
	return f
}

func (f *lessonHandlerFixture) put(l *domain.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	f.saved[l.ID] = &cp
	return nil
}

func (f *lessonHandlerFixture) seed(published bool) *domain.Lesson {
	l := &domain.Lesson{
		ID:          uuid.New(),
		Title:       "Verbs",
		Type:        domain.LessonTypeText,
		LanguageID:  f.language.ID,
		IsPublished: published,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	_ = f.put(l)
	return l
}

// router mounts the lesson routes behind a principal of the given role.
func (f *lessonHandlerFixture) router(role domain.Role) chi.Router {
	h := f.handler
	r := chi.NewRouter()
	r.Use(asRole(role))
	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/export", h.Export)
		r.Get("/language/{languageId}", h.ByLanguage)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestLessonHandler_Create(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		rr := serve(f.router(domain.RoleTutor), jsonRequest(t, http.MethodPost, "/lessons", map[string]any{
			"title":       "Pasta vocabulary",
			"type":        "TEXT",
			"duration":    15,
			"level":       "A1",
			"languageId":  f.language.ID.String(),
			"isPublished": true,
		}))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		resp := decodeBody[LessonResponse](t, rr)
		assert.Equal(t, "Pasta vocabulary", resp.Title)
		assert.True(t, resp.IsPublished)
		require.NotNil(t, resp.Duration)
		assert.Equal(t, 15, *resp.Duration)
		require.NotNil(t, resp.Language)
		assert.Equal(t, "Italian", resp.Language.Name)
	})

	t.Run("video attachment goes to video hosting", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		f.uploader.On("UploadVideo", mock.Anything, mock.MatchedBy(func(file *media.File) bool {
			return file.ContentType == "video/mp4"
		})).Return(&media.Result{SecureURL: "https://video.example.com/clip.mp4", Bytes: 4}, nil).Once()

		req := multipartRequest(t, http.MethodPost, "/lessons", map[string]string{
			"title":       "Listening",
			"type":        "VIDEO",
			"languageId":  f.language.ID.String(),
			"duration":    "12",
			"isPublished": "yes",
		}, &formFile{field: "media", filename: "clip.mp4", contentType: "video/mp4", data: []byte("mp4!")})
		rr := serve(f.router(domain.RoleTutor), req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		resp := decodeBody[LessonResponse](t, rr)
		require.NotNil(t, resp.MediaURL)
		assert.Equal(t, "https://video.example.com/clip.mp4", *resp.MediaURL)
		assert.False(t, resp.IsPublished, "only the literal true publishes")
	})

	t.Run("document attachment goes to image hosting", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		f.uploader.On("UploadImage", mock.Anything, mock.Anything).
			Return(&media.Result{SecureURL: "https://cdn.example.com/notes.pdf"}, nil).Once()

		req := multipartRequest(t, http.MethodPost, "/lessons", map[string]string{
			"title": "Reading", "type": "TEXT", "languageId": f.language.ID.String(),
		}, &formFile{field: "media", filename: "notes.pdf", contentType: "application/pdf", data: []byte("%PDF-1.4")})
		rr := serve(f.router(domain.RoleTutor), req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("unknown language", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		rr := serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodPost, "/lessons", map[string]any{
			"title": "Orphan", "type": "TEXT", "languageId": uuid.NewString(),
		}))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Language not found", decodeBody[shared.ErrorResponse](t, rr).Error)
	})

	t.Run("negative duration", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		rr := serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodPost, "/lessons", map[string]any{
			"title": "Bad", "type": "TEXT", "languageId": f.language.ID.String(), "duration": -5,
		}))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeBody[shared.ErrorResponse](t, rr)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "duration", resp.Fields[0].Field)
	})

	t.Run("non-integer duration in form", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		req := multipartRequest(t, http.MethodPost, "/lessons", map[string]string{
			"title": "Bad", "type": "TEXT", "languageId": f.language.ID.String(), "duration": "ten",
		}, nil)
		rr := serve(f.router(domain.RoleAdmin), req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid duration: must be an integer", decodeBody[shared.ErrorResponse](t, rr).Error)
	})
}

func TestLessonHandler_List(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		total         int64
		expectedCode  int
		expectedMeta  PageMeta
		expectedCheck func(t *testing.T, filter store.LessonFilter, offset, limit int)
	}{
		{
			name:         "defaults",
			query:        "",
			total:        25,
			expectedCode: http.StatusOK,
			expectedMeta: PageMeta{Total: 25, Page: 1, Limit: 10, TotalPages: 3},
			expectedCheck: func(t *testing.T, filter store.LessonFilter, offset, limit int) {
				assert.Equal(t, 0, offset)
				assert.Equal(t, 10, limit)
				assert.Nil(t, filter.IsPublished)
			},
		},
		{
			name:         "filters and second page",
			query:        "?type=video&level=B2&isPublished=false&search=%20ciao%20&page=2&limit=5",
			total:        6,
			expectedCode: http.StatusOK,
			expectedMeta: PageMeta{Total: 6, Page: 2, Limit: 5, TotalPages: 2},
			expectedCheck: func(t *testing.T, filter store.LessonFilter, offset, limit int) {
				assert.Equal(t, 5, offset)
				assert.Equal(t, 5, limit)
				require.NotNil(t, filter.Type)
				assert.Equal(t, domain.LessonTypeVideo, *filter.Type)
				require.NotNil(t, filter.Level)
				assert.Equal(t, "B2", *filter.Level)
				require.NotNil(t, filter.IsPublished)
				assert.False(t, *filter.IsPublished)
				assert.Equal(t, "ciao", filter.Search)
			},
		},
		{
			name:         "limit is capped",
			query:        "?limit=1000",
			total:        0,
			expectedCode: http.StatusOK,
			expectedMeta: PageMeta{Total: 0, Page: 1, Limit: 100, TotalPages: 0},
			expectedCheck: func(t *testing.T, _ store.LessonFilter, _, limit int) {
				assert.Equal(t, 100, limit)
			},
		},
		{name: "bad type", query: "?type=PODCAST", expectedCode: http.StatusBadRequest},
		{name: "bad language id", query: "?languageId=xyz", expectedCode: http.StatusBadRequest},
		{name: "bad page", query: "?page=two", expectedCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newLessonHandlerFixture(t)
			seeded := f.seed(true)
			f.lessons.ListFn = func(_ context.Context, filter store.LessonFilter, offset, limit int) ([]*domain.Lesson, error) {
				if tc.expectedCheck != nil {
					tc.expectedCheck(t, filter, offset, limit)
				}
				return []*domain.Lesson{seeded}, nil
			}
			f.lessons.CountFn = func(context.Context, store.LessonFilter) (int64, error) { return tc.total, nil }

			rr := serve(f.router(domain.RoleLearner), jsonRequest(t, http.MethodGet, "/lessons"+tc.query, nil))

			require.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			if tc.expectedCode != http.StatusOK {
				return
			}
			resp := decodeBody[LessonListResponse](t, rr)
			assert.Equal(t, tc.expectedMeta, resp.Meta)
			require.Len(t, resp.Data, 1)
		})
	}
}

func TestLessonHandler_ListRejectsUnreachablePage(t *testing.T) {
	f := newLessonHandlerFixture(t)

	rr := serve(f.router(domain.RoleLearner),
		jsonRequest(t, http.MethodGet, "/lessons?page=9223372036854775807&limit=10", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeBody[shared.ErrorResponse](t, rr)
	assert.Equal(t, "Invalid page: is out of range", resp.Error)
}

func TestLessonHandler_Get(t *testing.T) {
	tests := []struct {
		name         string
		role         domain.Role
		published    bool
		expectedCode int
	}{
		{"published for learner", domain.RoleLearner, true, http.StatusOK},
		{"unpublished for learner", domain.RoleLearner, false, http.StatusForbidden},
		{"unpublished for tutor", domain.RoleTutor, false, http.StatusForbidden},
		{"unpublished for admin", domain.RoleAdmin, false, http.StatusOK},
		{"anonymous", "", true, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newLessonHandlerFixture(t)
			l := f.seed(tc.published)

			rr := serve(f.router(tc.role), jsonRequest(t, http.MethodGet, "/lessons/"+l.ID.String(), nil))

			assert.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			if tc.expectedCode == http.StatusForbidden {
				assert.Equal(t, "Lesson not available", decodeBody[shared.ErrorResponse](t, rr).Error)
			}
		})
	}

	t.Run("missing lesson", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		rr := serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodGet, "/lessons/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		rr := serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodGet, "/lessons/123", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLessonHandler_Update(t *testing.T) {
	t.Run("publishes and retitles", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		l := f.seed(false)

		rr := serve(f.router(domain.RoleTutor), jsonRequest(t, http.MethodPatch, "/lessons/"+l.ID.String(), map[string]any{
			"title": "Irregular verbs", "isPublished": true,
		}))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decodeBody[LessonResponse](t, rr)
		assert.Equal(t, "Irregular verbs", resp.Title)
		assert.True(t, resp.IsPublished)
		assert.Equal(t, domain.LessonTypeText, resp.Type)
	})

	t.Run("move to unknown language", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		l := f.seed(true)

		rr := serve(f.router(domain.RoleTutor), jsonRequest(t, http.MethodPatch, "/lessons/"+l.ID.String(), map[string]any{
			"languageId": uuid.NewString(),
		}))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Language not found", decodeBody[shared.ErrorResponse](t, rr).Error)
	})

	t.Run("missing lesson", func(t *testing.T) {
		f := newLessonHandlerFixture(t)
		rr := serve(f.router(domain.RoleTutor), jsonRequest(t, http.MethodPatch, "/lessons/"+uuid.NewString(), map[string]any{
			"title": "x",
		}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLessonHandler_Delete(t *testing.T) {
	f := newLessonHandlerFixture(t)
	l := f.seed(true)
	f.lessons.DeleteFn = func(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
		if id != l.ID {
			return nil, store.ErrLessonNotFound
		}
		return l, nil
	}

	rr := serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodDelete, "/lessons/"+l.ID.String(), nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, l.ID, decodeBody[LessonResponse](t, rr).ID)

	rr = serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodDelete, "/lessons/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Lesson not found", decodeBody[shared.ErrorResponse](t, rr).Error)
}

func TestLessonHandler_ByLanguage(t *testing.T) {
	f := newLessonHandlerFixture(t)
	var gotOrder store.SortOrder
	f.lessons.ListPublishedByLanguageFn = func(_ context.Context, languageID uuid.UUID, order store.SortOrder, limit int) ([]*domain.Lesson, error) {
		assert.Equal(t, f.language.ID, languageID)
		assert.Zero(t, limit)
		gotOrder = order
		return []*domain.Lesson{{ID: uuid.New(), Title: "Intro", Type: domain.LessonTypeAudio, Level: ptr("A1")}}, nil
	}

	rr := serve(f.router(domain.RoleLearner), jsonRequest(t, http.MethodGet, "/lessons/language/"+f.language.ID.String(), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, store.OldestFirst, gotOrder)
	resp := decodeBody[[]map[string]any](t, rr)
	require.Len(t, resp, 1)
	assert.Equal(t, "Intro", resp[0]["title"])
	assert.NotContains(t, resp[0], "content")
	assert.NotContains(t, resp[0], "languageId")
}

func TestLessonHandler_Stats(t *testing.T) {
	f := newLessonHandlerFixture(t)
	f.lessons.CountPublishedFn = func(context.Context) (int64, error) { return 3, nil }
	f.lessons.SumPublishedDurationFn = func(context.Context) (int64, error) { return 45, nil }
	f.lessons.PublishedBreakdownFn = func(context.Context) ([]domain.LessonBreakdown, error) {
		return []domain.LessonBreakdown{
			{Level: ptr("A1"), Type: domain.LessonTypeText, Count: 2},
			{Level: nil, Type: domain.LessonTypeVideo, Count: 1},
		}, nil
	}

	rr := serve(f.router(domain.RoleAdmin), jsonRequest(t, http.MethodGet, "/lessons/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"totalLessons": 3,
		"totalDuration": 45,
		"breakdown": [
			{"level": "A1", "type": "TEXT", "_count": {"id": 2}},
			{"level": null, "type": "VIDEO", "_count": {"id": 1}}
		]
	}`, rr.Body.String())
}

func TestLessonHandler_Export(t *testing.T) {
	f := newLessonHandlerFixture(t)
	l := f.seed(true)
	l.Language = &domain.LanguageSummary{ID: f.language.ID, Name: "Italian", Country: "Italy"}
	f.lessons.ListFn = func(_ context.Context, filter store.LessonFilter, offset, limit int) ([]*domain.Lesson, error) {
		assert.Equal(t, 0, offset)
		assert.Equal(t, service.MaxExportRows, limit)
		require.NotNil(t, filter.LanguageID)
		assert.Equal(t, f.language.ID, *filter.LanguageID)
		return []*domain.Lesson{l}, nil
	}

	rr := serve(f.router(domain.RoleAdmin),
		jsonRequest(t, http.MethodGet, "/lessons/export?languageId="+f.language.ID.String()+"&page=9", nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="lessons_2026-03-14.xlsx"`, rr.Header().Get("Content-Disposition"))

	wb, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(export.LessonsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, l.ID.String(), rows[1][0])
	assert.Equal(t, "Verbs", rows[1][1])
}
