package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/models"
)

const topViewedLimit = 5

type IAnalyticsService interface {
	Summary(ctx context.Context) (*models.Analytics, error)
}

type analyticsService struct {
	db *mongo.Database
}

func NewAnalyticsService(database *mongo.Database) IAnalyticsService {
	return &analyticsService{db: database}
}

// Summary computes the admin dashboard figures.
func (s *analyticsService) Summary(ctx context.Context) (*models.Analytics, error) {
	items := s.db.Collection(db.ItemsCollection)
	inquiries := s.db.Collection(db.InquiriesCollection)
	out := &models.Analytics{ByCategory: []models.CategoryCount{}, TopViewed: []models.ViewedItem{}}

	// one pass for status counts and total views
	cursor, err := items.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"views": bson.M{"$sum": "$views"},
		}}},
	})
	if err != nil {
		return nil, apperr.Internal("failed to compute analytics", fmt.Errorf("aggregate item statuses: %w", err))
	}
	var byStatus []struct {
		Status models.ItemStatus `bson:"_id"`
		Count  int64             `bson:"count"`
		Views  int64             `bson:"views"`
	}
	if err := cursor.All(ctx, &byStatus); err != nil {
		return nil, apperr.Internal("failed to compute analytics", err)
	}
	for _, row := range byStatus {
		out.TotalItems += row.Count
		out.TotalViews += row.Views
		switch row.Status {
		case models.ItemStatusOnSale:
			out.OnSaleItems = row.Count
		case models.ItemStatusReserved:
			out.ReservedItems = row.Count
		case models.ItemStatusSold:
			out.SoldItems = row.Count
		}
	}

	cursor, err = items.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, apperr.Internal("failed to compute analytics", fmt.Errorf("aggregate categories: %w", err))
	}
	if err := cursor.All(ctx, &out.ByCategory); err != nil {
		return nil, apperr.Internal("failed to compute analytics", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}}).
		SetLimit(topViewedLimit).
		SetProjection(bson.M{"title": 1, "views": 1})
	cursor, err = items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("failed to compute analytics", fmt.Errorf("find top viewed: %w", err))
	}
	var top []models.Item
	if err := cursor.All(ctx, &top); err != nil {
		return nil, apperr.Internal("failed to compute analytics", err)
	}
	for _, it := range top {
		out.TopViewed = append(out.TopViewed, models.ViewedItem{Title: it.Title, Views: it.Views})
	}

	if out.TotalInquiries, err = inquiries.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, apperr.Internal("failed to compute analytics", err)
	}
	if out.NewInquiries, err = inquiries.CountDocuments(ctx, bson.M{"status": models.InquiryStatusNew}); err != nil {
		return nil, apperr.Internal("failed to compute analytics", err)
	}
	return out, nil
}
