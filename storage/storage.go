package storage

import (
	"context"

	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/audit"
	"github.com/weedbox/pokertournament/model"
)

var (
	ErrNotFound   = apperr.NotFound("storage: record not found")
	ErrRestricted = apperr.New(apperr.Kind_Restricted, "storage: record is still referenced")
)

/*
Store 持久化介面
  - BlindStructure 刪除時一併刪除 levels
  - Tournament 刪除時一併刪除 tables / tournament players / rebuys
  - 仍被引用的 Player / BlindStructure / Tournament 不可刪除 (ErrRestricted)
  - 補碼紀錄只新增不修改
*/
type Store interface {
	audit.Sink

	SaveBlindStructure(ctx context.Context, bs model.BlindStructure) error
	GetBlindStructure(ctx context.Context, id int64) (model.BlindStructure, error)
	DeleteBlindStructure(ctx context.Context, id int64) error

	SaveTemplate(ctx context.Context, tt model.TournamentTemplate) error
	GetTemplate(ctx context.Context, id int64) (model.TournamentTemplate, error)

	SavePlayer(ctx context.Context, p model.Player) error
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	DeletePlayer(ctx context.Context, id int64) error

	SaveTournament(ctx context.Context, t *model.Tournament) error
	GetTournament(ctx context.Context, id int64) (*model.Tournament, error)
	DeleteTournament(ctx context.Context, id int64) error
	ListPlayerRebuys(ctx context.Context, playerID int64) ([]model.PlayerRebuy, error)

	SaveChampionship(ctx context.Context, c *model.Championship) error
	GetChampionship(ctx context.Context, id int64) (*model.Championship, error)
	DeleteChampionship(ctx context.Context, id int64) error

	AuditRecords(ctx context.Context, kind audit.Kind, entityID int64) ([]audit.Record, error)

	Close() error
}
