package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string  `json:"email"     validate:"required,email"`
	Password  string  `json:"password"  validate:"required,min=6,max=72"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName"  validate:"required,max=100"`
	Role      *string `json:"role"      validate:"omitempty,oneof=LEARNER TUTOR ADMIN"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateLanguageRequest is accepted as JSON or as multipart form fields
// alongside an optional "image" file.
type CreateLanguageRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description *string `json:"description"`
	Country     string  `json:"country"     validate:"required,max=100"`
	ImageURL    *string `json:"imageUrl"    validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateLanguageRequest carries only the fields to change.
type UpdateLanguageRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Country     *string `json:"country"     validate:"omitempty,min=1,max=100"`
	ImageURL    *string `json:"imageUrl"    validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}

// CreateLessonRequest is accepted as JSON or as multipart form fields
// alongside an optional "media" file.
type CreateLessonRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	MediaURL    *string `json:"mediaUrl"    validate:"omitempty,url"`
	Type        string  `json:"type"        validate:"required,oneof=VIDEO AUDIO TEXT"`
	Duration    *int    `json:"duration"    validate:"omitempty,gte=0"`
	Level       *string `json:"level"`
	LanguageID  string  `json:"languageId"  validate:"required,uuid"`
	IsPublished *bool   `json:"isPublished"`
}

// UpdateLessonRequest carries only the fields to change.
type UpdateLessonRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	MediaURL    *string `json:"mediaUrl"    validate:"omitempty,url"`
	Type        *string `json:"type"        validate:"omitempty,oneof=VIDEO AUDIO TEXT"`
	Duration    *int    `json:"duration"    validate:"omitempty,gte=0"`
	Level       *string `json:"level"`
	LanguageID  *string `json:"languageId"  validate:"omitempty,uuid"`
	IsPublished *bool   `json:"isPublished"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
	Avatar    *string     `json:"avatar"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

// ProfileResponse always carries tutorProfile, null for non-tutors.
type ProfileResponse struct {
	ID           uuid.UUID             `json:"id"`
	Email        string                `json:"email"`
	FirstName    string                `json:"firstName"`
	LastName     string                `json:"lastName"`
	Role         domain.Role           `json:"role"`
	Avatar       *string               `json:"avatar"`
	CreatedAt    time.Time             `json:"createdAt"`
	TutorProfile *TutorProfileResponse `json:"tutorProfile"`
}

// TutorProfileResponse is a tutor profile with the languages taught.
type TutorProfileResponse struct {
	ID          uuid.UUID               `json:"id"`
	Bio         *string                 `json:"bio"`
	HourlyRate  *float64                `json:"hourlyRate"`
	IsAvailable bool                    `json:"isAvailable"`
	Languages   []TutorLanguageResponse `json:"languages"`
}

// TutorLanguageResponse links a tutor profile to a full language record.
type TutorLanguageResponse struct {
	LanguageID  uuid.UUID         `json:"languageId"`
	Proficiency *string           `json:"proficiency"`
	Language    *LanguageResponse `json:"language"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// CountResponse is the "_count" object attached to languages.
type CountResponse struct {
	Lessons int64 `json:"lessons"`
	Tutors  int64 `json:"tutors"`
}

// LanguageResponse is a language, optionally with its counts.
type LanguageResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Country     string         `json:"country"`
	ImageURL    *string        `json:"imageUrl"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Count       *CountResponse `json:"_count,omitempty"`
}

// LanguageTutorResponse is a tutor listed on a language detail page.
type LanguageTutorResponse struct {
	ID          uuid.UUID         `json:"id"`
	Bio         *string           `json:"bio"`
	HourlyRate  *float64          `json:"hourlyRate"`
	IsAvailable bool              `json:"isAvailable"`
	User        TutorUserResponse `json:"user"`
}

// TutorUserResponse is the user subset shown with a tutor.
type TutorUserResponse struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Avatar    *string `json:"avatar"`
}

// LanguageDetailResponse is a language with its newest lessons and tutors.
type LanguageDetailResponse struct {
	LanguageResponse
	Lessons []LessonResponse        `json:"lessons"`
	Tutors  []LanguageTutorResponse `json:"tutors"`
}

// CountryCountResponse is one languagesByCountry entry.
type CountryCountResponse struct {
	Country string  `json:"country"`
	Count   IDCount `json:"_count"`
}

// IDCount mirrors a grouped row count.
type IDCount struct {
	ID int64 `json:"id"`
}

// LanguageStatsResponse summarizes the catalog.
type LanguageStatsResponse struct {
	TotalLanguages     int64                  `json:"totalLanguages"`
	TotalLessons       int64                  `json:"totalLessons"`
	TotalTutors        int64                  `json:"totalTutors"`
	LanguagesByCountry []CountryCountResponse `json:"languagesByCountry"`
}

// LessonLanguageResponse is the language summary embedded in lessons.
type LessonLanguageResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Country  string    `json:"country"`
	ImageURL *string   `json:"imageUrl,omitempty"`
}

// LessonResponse is a full lesson.
type LessonResponse struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Description *string                 `json:"description"`
	Content     *string                 `json:"content"`
	MediaURL    *string                 `json:"mediaUrl"`
	Type        domain.LessonType       `json:"type"`
	Duration    *int                    `json:"duration"`
	Level       *string                 `json:"level"`
	LanguageID  uuid.UUID               `json:"languageId"`
	IsPublished bool                    `json:"isPublished"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Language    *LessonLanguageResponse `json:"language,omitempty"`
}

// PublishedLessonResponse is the projection used by the per-language listing.
type PublishedLessonResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Type        domain.LessonType `json:"type"`
	Duration    *int              `json:"duration"`
	Level       *string           `json:"level"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// PageMeta describes a lesson page.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// LessonListResponse is one page of lessons.
type LessonListResponse struct {
	Data []LessonResponse `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// LessonBreakdownResponse is one (level, type) bucket.
type LessonBreakdownResponse struct {
	Level *string           `json:"level"`
	Type  domain.LessonType `json:"type"`
	Count IDCount           `json:"_count"`
}

// LessonStatsResponse summarizes published lessons.
type LessonStatsResponse struct {
	TotalLessons  int64                     `json:"totalLessons"`
	TotalDuration int64                     `json:"totalDuration"`
	Breakdown     []LessonBreakdownResponse `json:"breakdown"`
}

func userToResponse(u *domain.User, withCreatedAt bool) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Avatar:    u.Avatar,
	}
	if withCreatedAt {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func profileToResponse(u *domain.User) ProfileResponse {
	resp := ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
	if p := u.TutorProfile; p != nil {
		tp := &TutorProfileResponse{
			ID:          p.ID,
			Bio:         p.Bio,
			HourlyRate:  p.HourlyRate,
			IsAvailable: p.IsAvailable,
			Languages:   make([]TutorLanguageResponse, 0, len(p.Languages)),
		}
		for _, tl := range p.Languages {
			entry := TutorLanguageResponse{LanguageID: tl.LanguageID, Proficiency: tl.Proficiency}
			if tl.Language != nil {
				lang := languageToResponse(tl.Language, nil)
				entry.Language = &lang
			}
			tp.Languages = append(tp.Languages, entry)
		}
		resp.TutorProfile = tp
	}
	return resp
}

func languageToResponse(l *domain.Language, counts *domain.LanguageCounts) LanguageResponse {
	resp := LanguageResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Country:     l.Country,
		ImageURL:    l.ImageURL,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if counts != nil {
		resp.Count = &CountResponse{Lessons: counts.Lessons, Tutors: counts.Tutors}
	}
	return resp
}

func languageWithCountsToResponse(l *domain.LanguageWithCounts) LanguageResponse {
	return languageToResponse(&l.Language, &l.Counts)
}

func languagesToResponse(langs []domain.LanguageWithCounts) []LanguageResponse {
	out := make([]LanguageResponse, 0, len(langs))
	for i := range langs {
		out = append(out, languageWithCountsToResponse(&langs[i]))
	}
	return out
}

func languageDetailToResponse(d *service.LanguageDetail) LanguageDetailResponse {
	resp := LanguageDetailResponse{
		LanguageResponse: languageWithCountsToResponse(&d.LanguageWithCounts),
		Lessons:          lessonsToResponse(d.Lessons),
		Tutors:           make([]LanguageTutorResponse, 0, len(d.Tutors)),
	}
	for _, t := range d.Tutors {
		resp.Tutors = append(resp.Tutors, LanguageTutorResponse{
			ID:          t.ID,
			Bio:         t.Bio,
			HourlyRate:  t.HourlyRate,
			IsAvailable: t.IsAvailable,
			User:        TutorUserResponse{FirstName: t.FirstName, LastName: t.LastName, Avatar: t.Avatar},
		})
	}
	return resp
}

func languageStatsToResponse(s *domain.LanguageStats) LanguageStatsResponse {
	resp := LanguageStatsResponse{
		TotalLanguages:     s.TotalLanguages,
		TotalLessons:       s.TotalLessons,
		TotalTutors:        s.TotalTutors,
		LanguagesByCountry: make([]CountryCountResponse, 0, len(s.LanguagesByCountry)),
	}
	for _, c := range s.LanguagesByCountry {
		resp.LanguagesByCountry = append(resp.LanguagesByCountry, CountryCountResponse{
			Country: c.Country,
			Count:   IDCount{ID: c.Count},
		})
	}
	return resp
}

func lessonToResponse(l *domain.Lesson) LessonResponse {
	resp := LessonResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Content:     l.Content,
		MediaURL:    l.MediaURL,
		Type:        l.Type,
		Duration:    l.Duration,
		Level:       l.Level,
		LanguageID:  l.LanguageID,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Language != nil {
		resp.Language = &LessonLanguageResponse{
			ID:       l.Language.ID,
			Name:     l.Language.Name,
			Country:  l.Language.Country,
			ImageURL: l.Language.ImageURL,
		}
	}
	return resp
}

func lessonsToResponse(lessons []*domain.Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonToResponse(l))
	}
	return out
}

func publishedLessonsToResponse(lessons []*domain.Lesson) []PublishedLessonResponse {
	out := make([]PublishedLessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, PublishedLessonResponse{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			Type:        l.Type,
			Duration:    l.Duration,
			Level:       l.Level,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out
}

func lessonPageToResponse(p *service.LessonPage) LessonListResponse {
	return LessonListResponse{
		Data: lessonsToResponse(p.Data),
		Meta: PageMeta{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages},
	}
}

func lessonStatsToResponse(s *domain.LessonStats) LessonStatsResponse {
	resp := LessonStatsResponse{
		TotalLessons:  s.TotalLessons,
		TotalDuration: s.TotalDuration,
		Breakdown:     make([]LessonBreakdownResponse, 0, len(s.Breakdown)),
	}
	for _, b := range s.Breakdown {
		resp.Breakdown = append(resp.Breakdown, LessonBreakdownResponse{
			Level: b.Level,
			Type:  b.Type,
			Count: IDCount{ID: b.Count},
		})
	}
	return resp
}
