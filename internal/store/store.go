package store

import (
	"errors"
	"fmt"
	"log"
)

// Store ties the block to the RTC.
type Store struct {
	block Block
	rtc   RTC
}

// New creates a store.
func New(b Block, rtc RTC) *Store {
	return &Store{block: b, rtc: rtc}
}

// Resume loads the snapshot and advances its calendar by the RTC seconds
// elapsed since it was written. It returns ErrColdStart when there is nothing
// valid to resume.
func (s *Store) Resume() (*Snapshot, error) {
	words, err := s.block.Load()
	if err != nil {
		return nil, err
	}
	snap, err := Decode(words)
	if errors.Is(err, ErrCorrupt) {
		return nil, fmt.Errorf("%v: %w", err, ErrColdStart)
	}
	if err != nil {
		return nil, err
	}

	now, err := s.rtc.Seconds()
	if err != nil {
		log.Printf("store: rtc read failed, resuming without catch-up: %v", err)
		return snap, nil
	}
	if now > snap.RTCSeconds {
		elapsed := now - snap.RTCSeconds
		snap.Calendar.Advance(int(elapsed))
		log.Printf("store: advanced clock by %ds since last snapshot", elapsed)
	}
	snap.RTCSeconds = now
	return snap, nil
}

// Save stamps snap with the current RTC seconds and writes it. If the RTC
// cannot be read the previous stamp is kept.
func (s *Store) Save(snap *Snapshot) error {
	if now, err := s.rtc.Seconds(); err != nil {
		log.Printf("store: rtc read failed, keeping previous stamp: %v", err)
	} else {
		snap.RTCSeconds = now
	}
	if err := s.block.Save(Encode(snap)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Peek returns the stored snapshot without catch-up.
func (s *Store) Peek() (*Snapshot, error) {
	words, err := s.block.Load()
	if err != nil {
		return nil, err
	}
	return Decode(words)
}
