package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

// ICategoryService manages categories and tags. Both are a name plus a slug
// derived from it; slugs are unique per collection.
type ICategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	RenameCategory(ctx context.Context, id utils.SixID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id utils.SixID) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	RenameTag(ctx context.Context, id utils.SixID, name string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id utils.SixID) error
}

type categoryService struct {
	db *mongo.Database
}

func NewCategoryService(database *mongo.Database) ICategoryService {
	return &categoryService{db: database}
}

func nameAndSlug(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	slug := utils.GenerateSlug(name)
	if name == "" || slug == "" {
		return "", "", apperr.ErrRequiredFields
	}
	return name, slug, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	if err := s.list(ctx, db.CategoriesCollection, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, slug, err := nameAndSlug(name)
	if err != nil {
		return nil, err
	}
	c := &models.Category{Name: name, Slug: slug, CreatedAt: time.Now().UTC()}
	if err := s.insert(ctx, db.CategoriesCollection, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) RenameCategory(ctx context.Context, id utils.SixID, name string) (*models.Category, error) {
	var c models.Category
	if err := s.rename(ctx, db.CategoriesCollection, id, name, &c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id utils.SixID) error {
	return s.delete(ctx, db.CategoriesCollection, id, apperr.ErrCategoryNotFound)
}

func (s *categoryService) ListTags(ctx context.Context) ([]models.Tag, error) {
	out := []models.Tag{}
	if err := s.list(ctx, db.TagsCollection, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *categoryService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name, slug, err := nameAndSlug(name)
	if err != nil {
		return nil, err
	}
	t := &models.Tag{Name: name, Slug: slug, CreatedAt: time.Now().UTC()}
	if err := s.insert(ctx, db.TagsCollection, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *categoryService) RenameTag(ctx context.Context, id utils.SixID, name string) (*models.Tag, error) {
	var t models.Tag
	if err := s.rename(ctx, db.TagsCollection, id, name, &t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *categoryService) DeleteTag(ctx context.Context, id utils.SixID) error {
	return s.delete(ctx, db.TagsCollection, id, apperr.ErrTagNotFound)
}

func (s *categoryService) list(ctx context.Context, coll string, out interface{}) error {
	cursor, err := s.db.Collection(coll).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return apperr.Internal("failed to load "+coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return apperr.Internal("failed to load "+coll, err)
	}
	return nil
}

func (s *categoryService) insert(ctx context.Context, coll string, doc db.Document) error {
	err := db.InsertOne(ctx, s.db.Collection(coll), doc)
	switch {
	case err == nil:
		return nil
	case db.IsMongoDuplicateKeyError(err):
		return apperr.ErrSlugTaken
	default:
		return apperr.Internal("failed to save "+coll, err)
	}
}

// rename sets a new name and the slug derived from it. A missing document is
// reported as mongo.ErrNoDocuments.
func (s *categoryService) rename(ctx context.Context, coll string, id utils.SixID, name string, out interface{}) error {
	name, slug, err := nameAndSlug(name)
	if err != nil {
		return err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.db.Collection(coll).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name, "slug": slug}}, opts).Decode(out)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return err
	case db.IsMongoDuplicateKeyError(err) || mongo.IsDuplicateKeyError(err):
		return apperr.ErrSlugTaken
	default:
		return apperr.Internal("failed to rename", fmt.Errorf("rename %s %s: %w", coll, id, err))
	}
}

func (s *categoryService) delete(ctx context.Context, coll string, id utils.SixID, notFound error) error {
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("failed to delete", fmt.Errorf("delete %s %s: %w", coll, id, err))
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
