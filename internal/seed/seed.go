// Package seed fills an empty catalog with sample users, categories and items.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxAgeDays bounds the random creation date of sample items.
const MaxAgeDays = 540

type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
	now  func() time.Time
}

func New(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{db: db, rand: rand.New(rand.NewSource(seed)), now: time.Now}
}

// Result counts what Populate created.
type Result struct {
	Users      int
	Categories int
	Items      int
}

// Populate inserts the sample data in a single transaction. Each category
// and item gets a random owner; each item a creation date within the last
// MaxAgeDays days.
func (s *Seeder) Populate(ctx context.Context) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, 0, len(maleUsers)+len(femaleUsers))
		for _, name := range maleUsers {
			users = append(users, models.User{Name: name, Email: Email(name), Picture: maleAvatar})
		}
		for _, name := range femaleUsers {
			users = append(users, models.User{Name: name, Email: Email(name), Picture: femaleAvatar})
		}
		if err := tx.Omit(clause.Associations).Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		byName := make(map[string]uint, len(categoryNames))
		for _, name := range categoryNames {
			c := models.Category{Name: name, UserID: s.pick(users)}
			if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", name, err)
			}
			byName[name] = c.ID
		}

		items := make([]models.Item, 0, len(sampleItems))
		for _, si := range sampleItems {
			items = append(items, models.Item{
				Name:        si.Name,
				CategoryID:  byName[si.Category],
				UserID:      s.pick(users),
				Picture:     si.Picture,
				Description: si.Description,
				DateCreated: s.creationDate(),
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("seed items: %w", err)
		}

		res = Result{Users: len(users), Categories: len(byName), Items: len(items)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	slog.Info("catalog populated", "users", res.Users, "categories", res.Categories, "items", res.Items)
	return res, nil
}

// Email derives a sample address from the first name: "amy@gmail.com".
func Email(name string) string {
	first := strings.Fields(name)[0]
	return strings.ToLower(first) + "@gmail.com"
}

func (s *Seeder) pick(users []models.User) uint {
	return users[s.rand.Intn(len(users))].ID
}

func (s *Seeder) creationDate() time.Time {
	return models.Day(s.now().AddDate(0, 0, -s.rand.Intn(MaxAgeDays+1)))
}
