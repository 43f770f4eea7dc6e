package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/skillsync/internal/domain/profile"
)

type userRow struct {
	ID uint64 `gorm:"primaryKey"`
}

func (userRow) TableName() string { return "users" }

type profileRow struct {
	ID                uint64  `gorm:"primaryKey;autoIncrement"`
	UserID            uint64  `gorm:"not null;uniqueIndex"`
	EducationLevel    string  `gorm:"size:255"`
	CareerGoal        string  `gorm:"size:255"`
	Interests         string  `gorm:"type:text"`
	YearsOfExperience *int
}

func (profileRow) TableName() string { return "user_profiles" }

type skillRow struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:255;not null;uniqueIndex"`
}

func (skillRow) TableName() string { return "skills" }

type profileSkillRow struct {
	ProfileID uint64 `gorm:"primaryKey"`
	SkillID   uint64 `gorm:"primaryKey"`
}

func (profileSkillRow) TableName() string { return "profile_skills" }

// Gorm reads users and profiles from SQL tables owned by the profile
// service. Put exists for seeding local databases.
type Gorm struct {
	db *gorm.DB
}

var (
	_ profile.Reader    = (*Gorm)(nil)
	_ profile.Directory = (*Gorm)(nil)
)

// NewGorm returns a reader over db.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates the user and profile tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &profileRow{}, &skillRow{}, &profileSkillRow{}); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}
	return nil
}

func (g *Gorm) UserExists(ctx context.Context, userID uint64) (bool, error) {
	var n int64
	if err := g.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (g *Gorm) FindProfileByUserID(ctx context.Context, userID uint64) (profile.Profile, bool, error) {
	var row profileRow
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return profile.Profile{}, false, nil
	}
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("load profile: %w", err)
	}

	var skills []string
	err = g.db.WithContext(ctx).
		Table("skills").
		Joins("JOIN profile_skills ON profile_skills.skill_id = skills.id").
		Where("profile_skills.profile_id = ?", row.ID).
		Order("skills.name").
		Pluck("skills.name", &skills).Error
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("load skills: %w", err)
	}

	return profile.Profile{
		EducationLevel:    row.EducationLevel,
		CareerGoal:        row.CareerGoal,
		Interests:         row.Interests,
		YearsOfExperience: row.YearsOfExperience,
		Skills:            skills,
	}, true, nil
}

// Put upserts the user and, when given, replaces the profile and its skills
// in one transaction.
func (g *Gorm) Put(ctx context.Context, r Record) error {
	if r.UserID == 0 {
		return ErrInvalidUserID
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&userRow{ID: r.UserID}).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if r.Profile == nil {
			return nil
		}

		row := profileRow{UserID: r.UserID}
		if err := tx.Where("user_id = ?", r.UserID).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		row.EducationLevel = r.Profile.EducationLevel
		row.CareerGoal = r.Profile.CareerGoal
		row.Interests = r.Profile.Interests
		row.YearsOfExperience = r.Profile.YearsOfExperience
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		if err := tx.Where("profile_id = ?", row.ID).Delete(&profileSkillRow{}).Error; err != nil {
			return fmt.Errorf("clear skills: %w", err)
		}
		for _, name := range r.Profile.SkillNames() {
			skill := skillRow{Name: strings.TrimSpace(name)}
			if err := tx.Where("name = ?", skill.Name).FirstOrCreate(&skill).Error; err != nil {
				return fmt.Errorf("upsert skill %q: %w", name, err)
			}
			link := profileSkillRow{ProfileID: row.ID, SkillID: skill.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return fmt.Errorf("link skill %q: %w", name, err)
			}
		}
		return nil
	})
}
