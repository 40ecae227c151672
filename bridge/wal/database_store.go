// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/database"

	"github.com/luxfi/bridgeconsensus/bridge/types"
)

// pendingActionsPrefix namespaces WAL entries within a shared database,
// matching the prefixed-key convention the surrounding node uses for every
// other piece of durable state.
var pendingActionsPrefix = []byte("bridge/pending/")

// DatabaseStore is a PendingActionStore backed by a database.Database,
// giving the write-ahead log the same crash-durability guarantee as any
// other piece of node state. It serializes each entry independently rather
// than as one blob, so a lookup or removal never needs to read the whole
// log.
//
// Entries are JSON-encoded: the external wire codec this repository would
// otherwise reach for has no example usage in the surrounding corpus to
// ground an encoding against, so entries use the same encoding/json
// wrapper idiom the node's own codec package uses internally.
type DatabaseStore struct {
	db database.Database
}

// NewDatabaseStore wraps db as a PendingActionStore.
func NewDatabaseStore(db database.Database) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func pendingActionKey(digest types.ActionDigest) []byte {
	key := make([]byte, 0, len(pendingActionsPrefix)+len(digest))
	key = append(key, pendingActionsPrefix...)
	key = append(key, digest[:]...)
	return key
}

func (s *DatabaseStore) InsertPendingActions(actions []types.BridgeAction) error {
	for _, a := range actions {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("wal: marshaling pending action: %w", err)
		}
		if err := s.db.Put(pendingActionKey(a.Digest()), data); err != nil {
			return fmt.Errorf("wal: writing pending action: %w", err)
		}
	}
	return nil
}

func (s *DatabaseStore) RemovePendingActions(digests []types.ActionDigest) error {
	for _, d := range digests {
		if err := s.db.Delete(pendingActionKey(d)); err != nil {
			return fmt.Errorf("wal: removing pending action: %w", err)
		}
	}
	return nil
}

func (s *DatabaseStore) GetAllPendingActions() (map[types.ActionDigest]types.BridgeAction, error) {
	out := make(map[types.ActionDigest]types.BridgeAction)

	iter := s.db.NewIteratorWithPrefix(pendingActionsPrefix)
	defer iter.Release()

	for iter.Next() {
		var action types.BridgeAction
		if err := json.Unmarshal(iter.Value(), &action); err != nil {
			return nil, fmt.Errorf("wal: decoding pending action: %w", err)
		}
		out[action.Digest()] = action
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("wal: iterating pending actions: %w", err)
	}
	return out, nil
}
