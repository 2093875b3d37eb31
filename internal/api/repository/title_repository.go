package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"reviewhub/internal/api/models"
)

// TitleFilter narrows a title listing. Zero values mean "no filter".
type TitleFilter struct {
	Name     string // substring match on name
	Category string // category slug
	Genre    string // genre slug
	Year     *int   // exact year
	Ordering string // id|name|year, "-" prefix for descending
	Offset   int
	Limit    int
}

// TitleWithRating pairs a title with the mean score of its reviews.
// Rating is nil when the title has no reviews.
type TitleWithRating struct {
	models.Title
	Rating *float64
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

func (r *TitleRepo) List(ctx context.Context, f TitleFilter) ([]TitleWithRating, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.Category)
	}
	if f.Genre != "" {
		q = q.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", f.Genre)
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	order, err := orderExpr(f.Ordering)
	if err != nil {
		return nil, 0, err
	}

	var titles []models.Title
	err = q.Preload("Category").Preload("Genres").
		Order(order).
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}

	ratings, err := r.averageRatings(ctx, titleIDs(titles))
	if err != nil {
		return nil, 0, err
	}

	out := make([]TitleWithRating, 0, len(titles))
	for _, t := range titles {
		row := TitleWithRating{Title: t}
		if avg, ok := ratings[t.ID]; ok {
			row.Rating = &avg
		}
		out = append(out, row)
	}
	return out, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*TitleWithRating, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Genres").
		First(&title, "titles.id = ?", id).Error
	if err != nil {
		return nil, err
	}

	ratings, err := r.averageRatings(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	row := &TitleWithRating{Title: title}
	if avg, ok := ratings[id]; ok {
		row.Rating = &avg
	}
	return row, nil
}

func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *TitleRepo) Update(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// ReplaceGenres overwrites the genre association of a title.
func (r *TitleRepo) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	if err := r.db.WithContext(ctx).Model(t).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("replace title genres: %w", err)
	}
	return nil
}

func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// averageRatings returns the mean review score per title id. Titles without
// reviews are absent from the map.
func (r *TitleRepo) averageRatings(ctx context.Context, ids []int64) (map[int64]float64, error) {
	if len(ids) == 0 {
		return map[int64]float64{}, nil
	}

	var rows []struct {
		TitleID int64
		Rating  float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score) AS rating").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	out := make(map[int64]float64, len(rows))
	for _, row := range rows {
		out[row.TitleID] = row.Rating
	}
	return out, nil
}

func titleIDs(titles []models.Title) []int64 {
	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	return ids
}

// orderExpr maps an ordering query parameter onto a safe ORDER BY clause.
func orderExpr(ordering string) (string, error) {
	if ordering == "" {
		ordering = "-id"
	}
	dir := "asc"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		dir = "desc"
		field = ordering[1:]
	}
	switch field {
	case "id", "name", "year":
		return fmt.Sprintf("titles.%s %s", field, dir), nil
	}
	return "", fmt.Errorf("unsupported ordering %q", ordering)
}
