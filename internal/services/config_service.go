package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/models"
)

// IConfigService serves runtime settings from an in-memory copy of the settings
// collection. Every instance reloads when a change is announced on Redis.
type IConfigService interface {
	Load(ctx context.Context) error
	SubscribeToChanges(ctx context.Context) error
	Get(key string) (interface{}, bool)
	GetInt(key string, defaultValue int) int
	GetString(key string, defaultValue string) string
	GetAllPublic(ctx context.Context) (map[string]interface{}, error)
	SetConfigValue(ctx context.Context, key string, value interface{}, isPublic bool) error
	GetAPIEndpointConfig(method, endpoint string) *models.APIEndpointConfig
}

const settingsUpdateChannel = "settings_updates"

type configService struct {
	db       *mongo.Database
	cfg      *config.Config
	rdb      *redis.Client
	cache    map[string]interface{}
	apiCache map[string]*models.APIEndpointConfig
	mutex    sync.RWMutex
}

// NewConfigService creates the settings store. Call Load before serving and run
// SubscribeToChanges in the background to follow updates from other instances.
func NewConfigService(database *mongo.Database, cfg *config.Config, rdb *redis.Client) IConfigService {
	return &configService{
		db:       database,
		cfg:      cfg,
		rdb:      rdb,
		cache:    make(map[string]interface{}),
		apiCache: make(map[string]*models.APIEndpointConfig),
	}
}

func apiCacheKey(method, endpoint string) string {
	return strings.ToUpper(method) + " " + endpoint
}

// Load replaces the cached settings and endpoint limits with the stored ones.
func (s *configService) Load(ctx context.Context) error {
	cursor, err := s.db.Collection(db.SettingsCollection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query settings: %w", err)
	}
	defer cursor.Close(ctx)

	newCache := make(map[string]interface{})
	for cursor.Next(ctx) {
		var entry models.SettingEntry
		if err := cursor.Decode(&entry); err != nil {
			log.Printf("WARN: failed to decode setting: %v", err)
			continue
		}
		newCache[entry.Key] = entry.Value
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("error iterating settings cursor: %w", err)
	}

	newAPICache := make(map[string]*models.APIEndpointConfig)
	apiCursor, err := s.db.Collection(db.APIEndpointsCollection).Find(ctx, bson.M{})
	if err != nil {
		log.Printf("error querying API endpoint configs: %v", err)
	} else {
		defer apiCursor.Close(ctx)
		for apiCursor.Next(ctx) {
			var entry models.APIEndpointConfig
			if err := apiCursor.Decode(&entry); err != nil {
				log.Printf("WARN: failed to decode API endpoint config: %v", err)
				continue
			}
			newAPICache[apiCacheKey(entry.Method, entry.Endpoint)] = &entry
		}
	}

	s.mutex.Lock()
	s.cache = newCache
	s.apiCache = newAPICache
	s.mutex.Unlock()

	log.Printf("loaded %d settings and %d API endpoint configs", len(newCache), len(newAPICache))
	return nil
}

func (s *configService) Get(key string) (interface{}, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	val, ok := s.cache[key]
	return val, ok
}

func (s *configService) GetString(key string, defaultValue string) string {
	val, ok := s.Get(key)
	if !ok {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	log.Printf("WARN: setting %q is not a string, using default", key)
	return defaultValue
}

// GetInt accepts any numeric BSON representation.
func (s *configService) GetInt(key string, defaultValue int) int {
	val, ok := s.Get(key)
	if !ok {
		return defaultValue
	}
	switch v := val.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		log.Printf("WARN: setting %q is not a number (%T), using default", key, val)
		return defaultValue
	}
}

// GetAllPublic reads the public settings straight from the collection.
func (s *configService) GetAllPublic(ctx context.Context) (map[string]interface{}, error) {
	cursor, err := s.db.Collection(db.SettingsCollection).Find(ctx, bson.M{"public": true})
	if err != nil {
		return nil, fmt.Errorf("failed to query public settings: %w", err)
	}
	defer cursor.Close(ctx)

	out := map[string]interface{}{}
	for cursor.Next(ctx) {
		var entry models.SettingEntry
		if err := cursor.Decode(&entry); err != nil {
			log.Printf("WARN: failed to decode public setting: %v", err)
			continue
		}
		out[entry.Key] = entry.Value
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating public settings cursor: %w", err)
	}
	if _, ok := out[models.SettingDailyUserAdLimit]; !ok {
		out[models.SettingDailyUserAdLimit] = s.cfg.DailyUserAdLimit
	}
	return out, nil
}

// SubscribeToChanges reloads the cache on every notification until ctx is done.
func (s *configService) SubscribeToChanges(ctx context.Context) error {
	if s.rdb == nil {
		log.Println("Redis client not configured, settings will not follow remote updates")
		return nil
	}

	pubsub := s.rdb.Subscribe(ctx, settingsUpdateChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", settingsUpdateChannel, err)
	}
	log.Printf("subscribed to Redis channel %s", settingsUpdateChannel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			log.Printf("settings update notification: %s", msg.Payload)
			if err := s.Load(ctx); err != nil {
				log.Printf("ERROR reloading settings: %v", err)
			}
		}
	}
}

// SetConfigValue upserts a setting, updates the local cache and tells the other instances.
func (s *configService) SetConfigValue(ctx context.Context, key string, value interface{}, isPublic bool) error {
	filter := bson.M{"key": key}
	update := bson.M{"$set": bson.M{"key": key, "value": value, "public": isPublic}}
	if _, err := s.db.Collection(db.SettingsCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}

	s.mutex.Lock()
	s.cache[key] = value
	s.mutex.Unlock()

	if s.rdb != nil {
		if err := s.rdb.Publish(ctx, settingsUpdateChannel, key).Err(); err != nil {
			log.Printf("WARN: failed to publish settings update for %q: %v", key, err)
		}
	}
	log.Printf("updated setting %q", key)
	return nil
}

// GetAPIEndpointConfig returns the stored override for a route, or nil for defaults.
func (s *configService) GetAPIEndpointConfig(method, endpoint string) *models.APIEndpointConfig {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.apiCache[apiCacheKey(method, endpoint)]
}
