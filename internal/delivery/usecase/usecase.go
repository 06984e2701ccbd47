package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/delivery"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"go.uber.org/zap"
)

// Cache is satisfied by *cache.RedisClient.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type deliveryUseCase struct {
	repo   delivery.Repository
	cache  Cache
	ttl    time.Duration
	logger logger.ZapLogger
}

// NewDeliveryUseCase accepts a nil cache; resolution then runs on every call.
func NewDeliveryUseCase(repo delivery.Repository, cache Cache, ttl time.Duration, log logger.ZapLogger) delivery.UseCase {
	return &deliveryUseCase{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

type resolutionInputs struct {
	Modules  []model.DeliveryModule          `json:"modules"`
	Template *model.DeliveryCategoryTemplate `json:"template"`
	Config   *model.DeliveryProductConfig    `json:"config"`
}

func (uc *deliveryUseCase) Preview(ctx context.Context, productID string) ([]model.ResolvedDeliveryModule, error) {
	if productID == "" {
		return nil, apperror.Validation("product id is required")
	}

	inputs, err := uc.loadInputs(ctx, productID)
	if err != nil {
		return nil, err
	}

	cacheKey, err := generateCacheKey(productID, inputs)
	if err != nil {
		uc.logger.Warn("failed to hash resolution inputs", zap.String("product_id", productID), zap.Error(err))
	}

	if cached, ok := uc.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	resolved := delivery.Resolve(productID, inputs.Modules, inputs.Template, inputs.Config)

	uc.toCache(ctx, cacheKey, resolved)

	return resolved, nil
}

func (uc *deliveryUseCase) loadInputs(ctx context.Context, productID string) (*resolutionInputs, error) {
	categoryID, found, err := uc.repo.FindProductCategory(ctx, productID)
	if err != nil {
		return nil, apperror.Persistence("load product", err)
	}
	if !found {
		return nil, apperror.NotFound(fmt.Sprintf("product %s not found", productID))
	}

	modules, err := uc.repo.ListModules(ctx)
	if err != nil {
		return nil, apperror.Persistence("load delivery modules", err)
	}

	var template *model.DeliveryCategoryTemplate
	if categoryID != nil {
		template, err = uc.repo.FindTemplateByCategory(ctx, *categoryID)
		if err != nil {
			return nil, apperror.Persistence("load category template", err)
		}
	}

	config, err := uc.repo.FindProductConfig(ctx, productID)
	if err != nil {
		return nil, apperror.Persistence("load product delivery config", err)
	}

	return &resolutionInputs{Modules: modules, Template: template, Config: config}, nil
}

func generateCacheKey(productID string, inputs *resolutionInputs) (string, error) {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("delivery:resolved:%s:%x", productID, md5.Sum(data)), nil
}

func (uc *deliveryUseCase) fromCache(ctx context.Context, key string) ([]model.ResolvedDeliveryModule, bool) {
	if uc.cache == nil || key == "" {
		return nil, false
	}

	val, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("delivery cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var resolved []model.ResolvedDeliveryModule
	if err := json.Unmarshal(val, &resolved); err != nil {
		uc.logger.Warn("discarding corrupt delivery cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return resolved, true
}

func (uc *deliveryUseCase) toCache(ctx context.Context, key string, resolved []model.ResolvedDeliveryModule) {
	if uc.cache == nil || key == "" {
		return
	}

	data, err := json.Marshal(resolved)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.ttl); err != nil {
		uc.logger.Warn("delivery cache write failed", zap.String("key", key), zap.Error(err))
	}
}
