package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

func TestPickRoundTrip(t *testing.T) {
	cmd := types.PickCommand{Seq: 7, PackID: "p1_s3", CardName: "Lim-Dûl's Vault"}

	frame, err := EncodePick(cmd)
	require.NoError(t, err)

	m, ok := DecodeClient(frame)
	require.True(t, ok, "encoded pick must decode")
	assert.Equal(t, types.TypePick, m.Type)
	assert.Equal(t, cmd, types.PickCommand{Seq: m.Seq, PackID: m.PackID, CardName: m.CardName})
}

func TestEncodePickRejectsIncompleteCommand(t *testing.T) {
	cases := []types.PickCommand{
		{Seq: -1, PackID: "p", CardName: "c"},
		{Seq: 1, PackID: "", CardName: "c"},
		{Seq: 1, PackID: "p", CardName: ""},
	}
	for _, cmd := range cases {
		_, err := EncodePick(cmd)
		assert.ErrorIs(t, err, ErrInvalidPick, "cmd %+v", cmd)
	}
}

func TestEncodeStateIsFreshCopy(t *testing.T) {
	a := EncodeState()
	a[0] = 'x'
	assert.JSONEq(t, `{"type":"state"}`, string(EncodeState()))
}

func TestDecodeNotifications(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		want  Kind
	}{
		{"state", `{"type":"state","state":{"pack_no":0,"pick_no":2,"active_pack":{"pack_id":"p0_s1","cards":["A","B"]},"pool":["X"],"can_pick":true,"next_seq":3,"state":"active"}}`, KindState},
		{"pick accepted", `{"type":"pick_accepted","state":{"pack_no":0,"pick_no":3,"active_pack":null,"pool":["X","A"],"can_pick":false,"next_seq":4,"state":"active"}}`, KindPickAccepted},
		{"round advanced", `{"type":"round_advanced","pack_no":1,"pick_no":0}`, KindRoundAdvanced},
		{"draft completed bare", `{"type":"draft_completed"}`, KindDraftCompleted},
		{"seat occupied", `{"type":"seat_occupied","message":"seat 2 is taken"}`, KindSeatOccupied},
		{"error", `{"type":"error","message":"stale seq"}`, KindError},
		{"extra fields tolerated", `{"type":"error","message":"m","trace":"abc"}`, KindError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := Decode([]byte(tc.frame))
			require.True(t, ok)
			assert.Equal(t, tc.want, n.Kind)
		})
	}
}

func TestDecodeCarriesPayload(t *testing.T) {
	n, ok := Decode([]byte(`{"type":"state","state":{"pack_no":1,"pick_no":4,"active_pack":{"pack_id":"p1_s0","cards":["A","B","C"]},"pool":["P"],"can_pick":true,"next_seq":9,"state":"active"}}`))
	require.True(t, ok)
	require.NotNil(t, n.Snapshot)
	assert.Equal(t, 1, n.Snapshot.PackNo)
	assert.Equal(t, 4, n.Snapshot.PickNo)
	assert.Equal(t, "p1_s0", n.Snapshot.PackID())
	assert.Equal(t, []string{"A", "B", "C"}, n.Snapshot.ActivePack.Cards)
	assert.Equal(t, 9, n.Snapshot.NextSeq)
	assert.True(t, n.Snapshot.CanPick)

	n, ok = Decode([]byte(`{"type":"round_advanced","pack_no":2,"pick_no":0}`))
	require.True(t, ok)
	assert.Equal(t, 2, n.PackNo)
	assert.Equal(t, 0, n.PickNo)

	n, ok = Decode([]byte(`{"type":"seat_occupied","message":"taken","redirect":"/lobby"}`))
	require.True(t, ok)
	assert.Equal(t, "taken", n.Message)
	assert.Equal(t, "/lobby", n.Redirect)
}

func TestDecodeDropsMalformedFrames(t *testing.T) {
	frames := []string{
		``,
		`{`,
		`null`,
		`[1,2]`,
		`"state"`,
		`{"type":"bogus"}`,
		`{"type":"state"}`,
		`{"type":"state","state":{"pack_no":-1,"pick_no":0,"next_seq":1,"state":"active"}}`,
		`{"type":"state","state":{"pack_no":0,"pick_no":0,"next_seq":1,"state":"paused"}}`,
		`{"type":"state","state":{"pack_no":0,"pick_no":0,"next_seq":1,"state":"active","active_pack":{"pack_id":"","cards":["A"]}}}`,
		`{"type":"pick_accepted","state":{"pack_no":0,"pick_no":0,"next_seq":1,"state":"active","active_pack":{"pack_id":"p","cards":["A",""]}}}`,
		`{"type":"round_advanced","pack_no":1}`,
		`{"type":"round_advanced","pack_no":1,"pick_no":-2}`,
		`{"type":"state","state":{"pack_no":"zero"}}`,
	}
	for _, f := range frames {
		_, ok := Decode([]byte(f))
		assert.False(t, ok, "frame %q should be dropped", f)
	}
}

func TestDecodeDraftCompletedIgnoresBadAttachedState(t *testing.T) {
	n, ok := Decode([]byte(`{"type":"draft_completed","state":{"pack_no":0,"pick_no":0,"next_seq":1,"state":"weird"}}`))
	require.True(t, ok)
	assert.Equal(t, KindDraftCompleted, n.Kind)
	assert.Nil(t, n.Snapshot)
}

func TestDecodeClient(t *testing.T) {
	m, ok := DecodeClient([]byte(`{"type":"state"}`))
	require.True(t, ok)
	assert.Equal(t, types.TypeState, m.Type)

	for _, f := range []string{`{"type":"pick","seq":1,"pack_id":"","card_name":"A"}`, `{"type":"ban"}`, `nope`} {
		_, ok := DecodeClient([]byte(f))
		assert.False(t, ok, f)
	}
}

func TestEncodeServerDecodesOnClient(t *testing.T) {
	snap := types.Snapshot{
		PackNo:     0,
		ActivePack: &types.ActivePack{PackID: "p0_s0", Cards: []string{"A"}},
		CanPick:    true,
		NextSeq:    1,
		State:      types.DraftActive,
	}
	n, ok := Decode(EncodeServer(StateMessage(snap)))
	require.True(t, ok)
	assert.Equal(t, KindState, n.Kind)
	assert.Equal(t, "p0_s0", n.Snapshot.PackID())

	n, ok = Decode(EncodeServer(ErrorMessage("wrong pack")))
	require.True(t, ok)
	assert.Equal(t, "wrong pack", n.Message)
}
