package engine

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

var ErrBadConfig = errors.New("invalid draft config")
var ErrDeckSize = errors.New("deck size does not match config")
var ErrInvalidSeat = errors.New("invalid seat")
var ErrStaleSeq = errors.New("stale seq")
var ErrSeqGap = errors.New("seq out of order")
var ErrWrongPack = errors.New("pack is not in front of this seat")
var ErrCardUnavailable = errors.New("card not available in pack")
var ErrAlreadyPicked = errors.New("seat already picked this round")
var ErrDraftDone = errors.New("draft already completed")

type Config struct {
	PackCount int
	PackSize  int
	SeatCount int
}

func (c Config) Validate() error {
	if c.PackCount < 1 || c.PackSize < 1 || c.SeatCount < 1 {
		return fmt.Errorf("%w: packs=%d size=%d seats=%d", ErrBadConfig, c.PackCount, c.PackSize, c.SeatCount)
	}
	return nil
}

func (c Config) DeckSize() int { return c.PackCount * c.PackSize * c.SeatCount }

type Pack struct {
	ID     string
	Cards  []string
	Picked []bool
}

// Remaining lists unpicked cards in pack order.
func (p *Pack) Remaining() []string {
	out := make([]string, 0, len(p.Cards))
	for i, c := range p.Cards {
		if !p.Picked[i] {
			out = append(out, c)
		}
	}
	return out
}

type pickRecord struct {
	Seq    int
	PackID string
	Card   string
}

type Seat struct {
	Pool        []string
	LastSeq     int
	PickedRound bool
	last        pickRecord
}

type Draft struct {
	Config Config
	Packs  [][]*Pack // [pack number][origin seat]
	Seats  []Seat
	PackNo int
	PickNo int
	Done   bool
}

type PickResult struct {
	State         types.Snapshot
	Duplicate     bool
	RoundAdvanced bool
	Completed     bool
}

// NewDraft deals deck in order: pack p for seat s takes the next PackSize cards.
func NewDraft(cfg Config, deck []string) (*Draft, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(deck) != cfg.DeckSize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDeckSize, len(deck), cfg.DeckSize())
	}

	d := &Draft{
		Config: cfg,
		Packs:  make([][]*Pack, cfg.PackCount),
		Seats:  make([]Seat, cfg.SeatCount),
	}
	next := 0
	for p := 0; p < cfg.PackCount; p++ {
		d.Packs[p] = make([]*Pack, cfg.SeatCount)
		for s := 0; s < cfg.SeatCount; s++ {
			cards := append([]string(nil), deck[next:next+cfg.PackSize]...)
			next += cfg.PackSize
			d.Packs[p][s] = &Pack{
				ID:     fmt.Sprintf("p%d_s%d", p, s),
				Cards:  cards,
				Picked: make([]bool, cfg.PackSize),
			}
		}
	}
	return d, nil
}

func (d *Draft) State() types.DraftState {
	if d.Done {
		return types.DraftDone
	}
	return types.DraftActive
}

func (d *Draft) validSeat(seat int) bool {
	return seat >= 0 && seat < d.Config.SeatCount
}

// packAt returns the pack in front of seat this round. Even packs pass to the
// next seat, odd packs pass back.
func (d *Draft) packAt(seat int) *Pack {
	n := d.Config.SeatCount
	k := d.PickNo % n
	origin := (seat - k + n) % n
	if d.PackNo%2 == 1 {
		origin = (seat + k) % n
	}
	return d.Packs[d.PackNo][origin]
}

func (d *Draft) PlayerState(seat int) (types.Snapshot, error) {
	if !d.validSeat(seat) {
		return types.Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	st := d.Seats[seat]
	snap := types.Snapshot{
		PackNo:  d.PackNo,
		PickNo:  d.PickNo,
		Pool:    append([]string{}, st.Pool...),
		NextSeq: st.LastSeq + 1,
		State:   d.State(),
	}
	if d.Done {
		snap.PackNo = d.Config.PackCount - 1
		snap.PickNo = d.Config.PackSize - 1
		return snap, nil
	}
	if !st.PickedRound {
		pack := d.packAt(seat)
		snap.ActivePack = &types.ActivePack{PackID: pack.ID, Cards: pack.Remaining()}
		snap.CanPick = true
	}
	return snap, nil
}

func (d *Draft) Pick(seat, seq int, packID, card string) (PickResult, error) {
	if !d.validSeat(seat) {
		return PickResult{}, fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	st := &d.Seats[seat]

	// Replays of the last accepted pick are acknowledged without effect.
	if seq == st.LastSeq && seq > 0 && st.last.PackID == packID && st.last.Card == card {
		state, err := d.PlayerState(seat)
		return PickResult{State: state, Duplicate: true}, err
	}
	if seq <= st.LastSeq {
		return PickResult{}, fmt.Errorf("%w: got %d, last %d", ErrStaleSeq, seq, st.LastSeq)
	}
	if seq != st.LastSeq+1 {
		return PickResult{}, fmt.Errorf("%w: got %d, want %d", ErrSeqGap, seq, st.LastSeq+1)
	}
	if d.Done {
		return PickResult{}, ErrDraftDone
	}
	if st.PickedRound {
		return PickResult{}, ErrAlreadyPicked
	}

	pack := d.packAt(seat)
	if pack.ID != packID {
		return PickResult{}, fmt.Errorf("%w: got %s, have %s", ErrWrongPack, packID, pack.ID)
	}
	idx := -1
	for i, c := range pack.Cards {
		if c == card && !pack.Picked[i] {
			idx = i
			break
		}
	}
	if idx == -1 {
		return PickResult{}, fmt.Errorf("%w: %q", ErrCardUnavailable, card)
	}

	pack.Picked[idx] = true
	st.Pool = append(st.Pool, card)
	st.LastSeq = seq
	st.PickedRound = true
	st.last = pickRecord{Seq: seq, PackID: packID, Card: card}

	res := PickResult{}
	if d.roundComplete() {
		d.advance()
		res.RoundAdvanced = !d.Done
		res.Completed = d.Done
	}
	res.State, _ = d.PlayerState(seat)
	return res, nil
}

func (d *Draft) roundComplete() bool {
	for _, s := range d.Seats {
		if !s.PickedRound {
			return false
		}
	}
	return true
}

func (d *Draft) advance() {
	for i := range d.Seats {
		d.Seats[i].PickedRound = false
	}
	d.PickNo++
	if d.PickNo < d.Config.PackSize {
		return
	}
	d.PickNo = 0
	d.PackNo++
	if d.PackNo >= d.Config.PackCount {
		d.PackNo = d.Config.PackCount - 1
		d.Done = true
	}
}
