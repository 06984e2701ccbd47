package dto

import "github.com/fekuna/omnipos-catalog-sync/internal/model"

type PushRequest struct {
	ProductID string `json:"productId"`
}

type PushResult struct {
	Action model.SyncAction `json:"action"`
	FudoID string           `json:"fudo_id"`
}
