package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/repositories"
)

type StageService interface {
	GetPointsConfig(ctx context.Context, tournamentID, stageID int) (models.StagePointsConfig, error)
	SetPointsConfig(ctx context.Context, tournamentID, stageID int, cfg models.StagePointsConfig) (models.StagePointsConfig, error)
}

type stageService struct {
	tx        repositories.TxRunner
	stageRepo repositories.StageRepository
	changeLog repositories.ChangeLogRepository
	logger    *slog.Logger
}

func NewStageService(
	tx repositories.TxRunner,
	stageRepo repositories.StageRepository,
	changeLog repositories.ChangeLogRepository,
	logger *slog.Logger,
) StageService {
	return &stageService{tx: tx, stageRepo: stageRepo, changeLog: changeLog, logger: logger}
}

func (s *stageService) GetPointsConfig(ctx context.Context, tournamentID, stageID int) (models.StagePointsConfig, error) {
	stage, err := s.getStage(ctx, tournamentID, stageID)
	if err != nil {
		return models.StagePointsConfig{}, err
	}
	return models.ParsePointsConfig(stage.Metadata), nil
}

// SetPointsConfig validates and stores a stage's points configuration inside
// its metadata JSON. Keys other subsystems keep there are preserved.
func (s *stageService) SetPointsConfig(ctx context.Context, tournamentID, stageID int, cfg models.StagePointsConfig) (models.StagePointsConfig, error) {
	stage, err := s.getStage(ctx, tournamentID, stageID)
	if err != nil {
		return models.StagePointsConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return models.StagePointsConfig{}, fmt.Errorf("%w: %v", ErrInvalidPointsConfig, err)
	}

	merged, err := models.MergePointsConfig(stage.Metadata, cfg)
	if err != nil {
		return models.StagePointsConfig{}, fmt.Errorf("failed to merge points config for stage %d: %w", stageID, err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.stageRepo.UpdateMetadata(ctx, exec, stage.ID, merged); err != nil {
			return err
		}
		return s.changeLog.Append(ctx, exec, &models.FixtureChangeLog{
			TournamentID: tournamentID,
			StageID:      &stage.ID,
			Action:       models.ChangeActionConfigUpdated,
			Payload:      &merged,
		})
	})
	if err != nil {
		return models.StagePointsConfig{}, err
	}

	s.logger.Info("stage points config updated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("stage_id", stageID))
	return cfg, nil
}

func (s *stageService) getStage(ctx context.Context, tournamentID, stageID int) (*models.Stage, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	if stage.TournamentID != tournamentID {
		return nil, ErrStageNotFound
	}
	return stage, nil
}
