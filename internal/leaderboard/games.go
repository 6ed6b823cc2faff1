package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

var (
	monthUpdatable = map[string]bool{
		"challenge_name": true, "status": true, "start_date": true, "end_date": true, "winner_guild": true,
	}
	monthNullable = map[string]bool{"start_date": true, "end_date": true, "winner_guild": true}
	monthDates    = map[string]bool{"start_date": true, "end_date": true}
)

// Board is every month and every score
type Board struct {
	Months []*models.GamesMonth `json:"months"`
	Scores []*models.GamesScore `json:"scores"`
}

// MonthBoard is one month's ranked leaderboard
type MonthBoard struct {
	Month  *models.GamesMonth `json:"month"`
	Rows   []RankedRow        `json:"rows"`
	Winner *string            `json:"winner"`
}

// SaveRequest carries month edits and score upserts
type SaveRequest struct {
	Months []json.RawMessage `json:"months"`
	Scores []ScoreInput      `json:"scores"`
}

// ScoreInput is one (month, guild) score
type ScoreInput struct {
	MonthID   int64    `json:"month_id"`
	Guild     string   `json:"guild"`
	Score     *float64 `json:"score"`
	ScoreUnit string   `json:"score_unit"`
}

// Service manages the Guildie Games months and scores
type Service struct {
	repo   *db.GamesRepository
	logger *zap.Logger
}

// NewService creates a games service
func NewService(repo *db.GamesRepository) *Service {
	return &Service{
		repo:   repo,
		logger: logging.WithComponent("games"),
	}
}

// Board returns months by number and scores highest first
func (s *Service) Board(ctx context.Context) (*Board, error) {
	months, err := s.repo.Months(ctx)
	if err != nil {
		return nil, apperr.Upstream("failed to load months", err)
	}
	scores, err := s.repo.Scores(ctx)
	if err != nil {
		return nil, apperr.Upstream("failed to load scores", err)
	}
	return &Board{Months: months, Scores: scores}, nil
}

// MonthBoard ranks one month's scores
func (s *Service) MonthBoard(ctx context.Context, number int) (*MonthBoard, error) {
	month, err := s.repo.MonthByNumber(ctx, number)
	if err != nil {
		return nil, apperr.Upstream("failed to load month", err)
	}
	if month == nil {
		return nil, apperr.NotFound("month %d not found", number)
	}
	scores, err := s.repo.ScoresForMonth(ctx, month.ID)
	if err != nil {
		return nil, apperr.Upstream("failed to load scores", err)
	}

	board := &MonthBoard{Month: month, Rows: Rank(scores)}
	if winner, ok := Winner(month, board.Rows); ok {
		board.Winner = &winner
	}
	return board, nil
}

// Save applies month edits and score upserts. Super admins only.
// Each entry is written independently; failures are reported together.
func (s *Service) Save(ctx context.Context, sess *auth.Session, req *SaveRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "games.Save")
	defer span.End()

	if sess == nil {
		return apperr.Authentication("Not authenticated")
	}
	if !auth.IsSuperAdmin(sess) {
		return apperr.Forbidden("Super admin access required")
	}

	var errs []error
	for _, raw := range req.Months {
		if err := s.saveMonth(ctx, raw); err != nil {
			errs = append(errs, err)
		}
	}
	for _, in := range req.Scores {
		if err := s.saveScore(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}

	written := len(req.Months) + len(req.Scores) - len(errs)
	s.logger.Info("games saved",
		zap.String("by", sess.DiscordID),
		zap.Int("written", written),
		zap.Int("failed", len(errs)))
	if written > 0 {
		telemetry.RecordContentWrite(ctx, "games", "update")
	}
	return combine(errs)
}

func (s *Service) saveMonth(ctx context.Context, raw json.RawMessage) error {
	var head struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return apperr.Validation("invalid month: %v", err)
	}

	if head.ID == 0 {
		var month models.GamesMonth
		if err := json.Unmarshal(raw, &month); err != nil {
			return apperr.Validation("invalid month: %v", err)
		}
		month.ID = 0
		if month.Status == "" {
			month.Status = models.MonthUpcoming
		}
		if err := validateMonth(&month); err != nil {
			return err
		}
		if err := s.repo.CreateMonth(ctx, &month); err != nil {
			return apperr.Upstream(fmt.Sprintf("failed to create month %d", month.MonthNumber), err)
		}
		return nil
	}

	month, err := s.repo.MonthByID(ctx, head.ID)
	if err != nil {
		return apperr.Upstream(fmt.Sprintf("failed to load month %d", head.ID), err)
	}
	if month == nil {
		return apperr.NotFound("month %d not found", head.ID)
	}
	columns, err := content.ApplyPatch(month, raw, monthUpdatable, monthNullable, monthDates)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}
	if err := validateMonth(month); err != nil {
		return err
	}
	if err := s.repo.UpdateMonth(ctx, month, columns); err != nil {
		return apperr.Upstream(fmt.Sprintf("failed to update month %d", head.ID), err)
	}
	return nil
}

func validateMonth(m *models.GamesMonth) error {
	if m.MonthNumber < 1 || m.MonthNumber > 12 {
		return apperr.Validation("month_number must be between 1 and 12")
	}
	if !m.Status.Valid() {
		return apperr.Validation("invalid month status %q", m.Status)
	}
	for name, d := range map[string]*string{"start_date": m.StartDate, "end_date": m.EndDate} {
		if d == nil || *d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", *d); err != nil {
			return apperr.Validation("%s must be formatted YYYY-MM-DD", name)
		}
	}
	if m.WinnerGuild != nil && *m.WinnerGuild == "" {
		m.WinnerGuild = nil
	}
	if m.WinnerGuild != nil && !guilds.Valid(*m.WinnerGuild) {
		return apperr.Validation("unknown winner guild %q", *m.WinnerGuild)
	}
	return nil
}

func (s *Service) saveScore(ctx context.Context, in ScoreInput) error {
	if in.MonthID <= 0 {
		return apperr.Validation("score month_id is required")
	}
	if !guilds.Valid(in.Guild) {
		return apperr.Validation("unknown score guild %q", in.Guild)
	}
	if in.Score == nil {
		return apperr.Validation("score is required for %s", in.Guild)
	}

	score := &models.GamesScore{
		MonthID:   in.MonthID,
		Guild:     in.Guild,
		Score:     *in.Score,
		ScoreUnit: in.ScoreUnit,
	}
	if err := s.repo.UpsertScore(ctx, score); err != nil {
		return apperr.Upstream(fmt.Sprintf("failed to save %s score", in.Guild), err)
	}
	return nil
}

// combine joins errs, classified as upstream when any write failed in storage
func combine(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	kind := apperr.KindValidation
	for i, err := range errs {
		msgs[i] = err.Error()
		if apperr.KindOf(err) == apperr.KindUpstream {
			kind = apperr.KindUpstream
		}
	}
	return &apperr.Error{Kind: kind, Message: strings.Join(msgs, "; ")}
}
