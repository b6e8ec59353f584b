package services

import (
	"context"
	"errors"
	"fmt"

	"councilboard/internal/models"
	"councilboard/internal/repository"

	log "github.com/sirupsen/logrus"
)

type VoteState string

const (
	VoteCast      VoteState = "cast"
	VoteRetracted VoteState = "retracted"
)

type VoteResult struct {
	State   VoteState `json:"state"`
	Upvotes int       `json:"upvotes"`
}

const toggleAttempts = 3

// errVoteRace: the vote existed at insert time but was gone at delete time.
var errVoteRace = errors.New("vote disappeared during toggle")

// VoteLedger 保证每个 (identity, target) 最多一票，并支持撤销。
// 唯一索引是并发下的最终仲裁，计数器与投票记录在同一事务内变更。
type VoteLedger struct {
	store repository.TargetStore
}

func NewVoteLedger(store repository.TargetStore) *VoteLedger {
	return &VoteLedger{store: store}
}

// Toggle casts a vote if none exists for (target, identity), retracts it otherwise.
func (l *VoteLedger) Toggle(ctx context.Context, kind models.TargetKind, id uint, identity string) (VoteResult, error) {
	if identity == "" {
		return VoteResult{}, missingIdentity()
	}
	spec, ok := models.LookupTarget(kind)
	if !ok || !spec.Votable {
		return VoteResult{}, ErrInvalidTarget
	}
	if _, err := l.store.GetTarget(ctx, kind, id); err != nil {
		return VoteResult{}, mapStoreError(err)
	}

	for attempt := 1; attempt <= toggleAttempts; attempt++ {
		var result VoteResult
		err := l.store.Transaction(ctx, func(tx repository.TargetStore) error {
			if err := tx.EnsureIdentity(ctx, identity); err != nil {
				return err
			}

			err := tx.CreateVote(ctx, kind, id, identity)
			switch {
			case err == nil:
				upvotes, err := tx.IncrementCounter(ctx, kind, id, 1)
				if err != nil {
					return err
				}
				result = VoteResult{State: VoteCast, Upvotes: upvotes}
				return nil

			case errors.Is(err, repository.ErrVoteExists):
				// 已投过票（或并发插入中落败），走撤销分支
				deleted, err := tx.DeleteVote(ctx, kind, id, identity)
				if err != nil {
					return err
				}
				if deleted == 0 {
					return errVoteRace
				}
				upvotes, err := tx.IncrementCounter(ctx, kind, id, -1)
				if err != nil {
					return err
				}
				result = VoteResult{State: VoteRetracted, Upvotes: upvotes}
				return nil

			default:
				return err
			}
		})

		if errors.Is(err, errVoteRace) {
			log.WithFields(log.Fields{"kind": kind, "id": id, "attempt": attempt}).Debug("vote toggle raced, retrying")
			continue
		}
		if err != nil {
			return VoteResult{}, mapStoreError(err)
		}
		return result, nil
	}

	return VoteResult{}, ErrConflict
}

// mapStoreError converts repository errors into service errors.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrTargetNotFound
	case errors.Is(err, repository.ErrUnknownKind):
		return ErrInvalidTarget
	default:
		return fmt.Errorf("store: %w", err)
	}
}
