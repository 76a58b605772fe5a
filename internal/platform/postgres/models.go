package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
)

type userRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	Role      string    `gorm:"not null"`
	Avatar    *string
	IsActive  bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

func userFromDomain(u *domain.User) *userRow {
	return &userRow{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.HashedPassword,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Email:          r.Email,
		HashedPassword: r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Role:           domain.Role(r.Role),
		Avatar:         r.Avatar,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type tutorProfileRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Bio         *string
	HourlyRate  *float64
	IsAvailable bool `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Languages   []tutorLanguageRow `gorm:"foreignKey:TutorID"`
}

func (tutorProfileRow) TableName() string { return "tutor_profiles" }

func (r *tutorProfileRow) toDomain() *domain.TutorProfile {
	p := &domain.TutorProfile{
		ID:          r.ID,
		UserID:      r.UserID,
		Bio:         r.Bio,
		HourlyRate:  r.HourlyRate,
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Languages:   make([]domain.TutorLanguage, 0, len(r.Languages)),
	}
	for i := range r.Languages {
		tl := r.Languages[i]
		item := domain.TutorLanguage{
			TutorID:     tl.TutorID,
			LanguageID:  tl.LanguageID,
			Proficiency: tl.Proficiency,
		}
		if tl.Language != nil {
			item.Language = tl.Language.toDomain()
		}
		p.Languages = append(p.Languages, item)
	}
	return p
}

type tutorLanguageRow struct {
	TutorID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LanguageID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Proficiency *string
	Language    *languageRow `gorm:"foreignKey:LanguageID"`
}

func (tutorLanguageRow) TableName() string { return "tutor_languages" }

type languageRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Country     string `gorm:"not null"`
	ImageURL    *string
	IsActive    bool `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (languageRow) TableName() string { return "languages" }

func languageFromDomain(l *domain.Language) *languageRow {
	return &languageRow{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Country:     l.Country,
		ImageURL:    l.ImageURL,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (r *languageRow) toDomain() *domain.Language {
	return &domain.Language{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Country:     r.Country,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type lessonRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description *string
	Content     *string
	MediaURL    *string
	Type        string `gorm:"not null"`
	Duration    *int
	Level       *string
	LanguageID  uuid.UUID `gorm:"type:uuid;not null;index"`
	IsPublished bool      `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Language    *languageRow `gorm:"foreignKey:LanguageID"`
}

func (lessonRow) TableName() string { return "lessons" }

func lessonFromDomain(l *domain.Lesson) *lessonRow {
	return &lessonRow{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Content:     l.Content,
		MediaURL:    l.MediaURL,
		Type:        string(l.Type),
		Duration:    l.Duration,
		Level:       l.Level,
		LanguageID:  l.LanguageID,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (r *lessonRow) toDomain() *domain.Lesson {
	l := &domain.Lesson{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Content:     r.Content,
		MediaURL:    r.MediaURL,
		Type:        domain.LessonType(r.Type),
		Duration:    r.Duration,
		Level:       r.Level,
		LanguageID:  r.LanguageID,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Language != nil {
		l.Language = &domain.LanguageSummary{
			ID:       r.Language.ID,
			Name:     r.Language.Name,
			Country:  r.Language.Country,
			ImageURL: r.Language.ImageURL,
		}
	}
	return l
}
