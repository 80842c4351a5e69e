package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/prodraft/draft-backend/internal/engine"
)

// Postgres backs the Store with a Postgres database through gorm. Hero
// lists live in JSON columns, mirroring the row shapes the rest of the
// system reads.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Room{}, &Team{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

// jsonValue renders a hero list for a column update; map-based Updates
// bypass gorm's field serializer.
func jsonValue(heroes []engine.Hero) string {
	b, _ := json.Marshal(heroes)
	return string(b)
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (p *Postgres) CreateRoom(ctx context.Context, room *Room, teams []*Team) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for _, t := range teams {
			if err := tx.Create(t).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) Room(ctx context.Context, roomID string) (*Room, error) {
	var r Room
	if err := p.db.WithContext(ctx).First(&r, "id = ?", roomID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &r, nil
}

func (p *Postgres) Rooms(ctx context.Context) ([]*Room, error) {
	var rooms []*Room
	if err := p.db.WithContext(ctx).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (p *Postgres) Teams(ctx context.Context, roomID string) ([]*Team, error) {
	var teams []*Team
	err := p.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("color").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNotFound
	}
	return teams, nil
}

func (p *Postgres) Team(ctx context.Context, teamID string) (*Team, error) {
	var t Team
	if err := p.db.WithContext(ctx).First(&t, "id = ?", teamID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &t, nil
}

func (p *Postgres) ActiveTeam(ctx context.Context, roomID string) (*Team, error) {
	var t Team
	err := p.db.WithContext(ctx).
		Where("room_id = ? AND is_turn = ?", roomID, true).
		First(&t).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &t, nil
}

func (p *Postgres) SetRoomPhase(ctx context.Context, roomID string, phase engine.Phase, cycle int) error {
	return p.updateRoom(ctx, roomID, map[string]any{"phase": phase, "cycle": cycle})
}

func (p *Postgres) SetRoomReady(ctx context.Context, roomID string, ready bool) error {
	return p.updateRoom(ctx, roomID, map[string]any{"ready": ready})
}

func (p *Postgres) SetHeroPool(ctx context.Context, roomID string, pool []engine.Hero) error {
	return p.updateRoom(ctx, roomID, map[string]any{"hero_pool": jsonValue(pool)})
}

func (p *Postgres) updateRoom(ctx context.Context, roomID string, fields map[string]any) error {
	res := p.db.WithContext(ctx).Model(&Room{}).Where("id = ?", roomID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SetTeamTurn(ctx context.Context, roomID string, color engine.TeamColor, isTurn, canSelect bool) error {
	res := p.db.WithContext(ctx).Model(&Team{}).
		Where("room_id = ? AND color = ?", roomID, color).
		Updates(map[string]any{"is_turn": isTurn, "can_select": canSelect})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DisableSelection(ctx context.Context, roomID string) error {
	return p.db.WithContext(ctx).Model(&Team{}).
		Where("room_id = ?", roomID).
		Update("can_select", false).Error
}

func (p *Postgres) SetTeamReady(ctx context.Context, teamID string, ready bool) error {
	res := p.db.WithContext(ctx).Model(&Team{}).
		Where("id = ?", teamID).
		Update("ready", ready)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SetTeamsReady(ctx context.Context, roomID string, ready bool) error {
	return p.db.WithContext(ctx).Model(&Team{}).
		Where("room_id = ?", roomID).
		Update("ready", ready).Error
}

func (p *Postgres) SetClickedHero(ctx context.Context, teamID string, heroID *string) error {
	return p.db.WithContext(ctx).Model(&Team{}).
		Where("id = ?", teamID).
		Update("clicked_hero", heroID).Error
}

func (p *Postgres) SetTeamSlots(ctx context.Context, teamID string, phase engine.Phase, slots []engine.Hero) error {
	column := "picks"
	if phase == engine.PhaseBan {
		column = "bans"
	}
	return p.db.WithContext(ctx).Model(&Team{}).
		Where("id = ?", teamID).
		Update(column, jsonValue(slots)).Error
}

func (p *Postgres) RoomIDsOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	err := p.db.WithContext(ctx).Model(&Room{}).
		Where("created_at < ?", cutoff).
		Pluck("id", &ids).Error
	return ids, err
}

func (p *Postgres) DeleteRoom(ctx context.Context, roomID string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&Team{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", roomID).Delete(&Room{}).Error
	})
}
