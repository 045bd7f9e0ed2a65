package ptb

import "testing"

func TestCommandKindString(t *testing.T) {
	cases := []struct {
		kind CommandKind
		want string
	}{
		{CommandMoveCall, "MoveCall"},
		{CommandSplitCoins, "SplitCoins"},
		{CommandMergeCoins, "MergeCoins"},
		{CommandTransferObjects, "TransferObjects"},
		{CommandMakeMoveVector, "MakeMoveVector"},
		{CommandPublish, "Publish"},
		{CommandUpgrade, "Upgrade"},
		{CommandKind(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("CommandKind(%d).String() = %q, want %q", int(tc.kind), got, tc.want)
		}
	}
}

func TestCommandAccessors(t *testing.T) {
	b := New()
	amount, _ := b.PureU64(1)
	if _, err := b.SplitCoins(b.Gas(), amount); err != nil {
		t.Fatalf("SplitCoins: %v", err)
	}
	if err := b.MergeCoins(b.Gas(), amount); err != nil {
		t.Fatalf("MergeCoins: %v", err)
	}

	split := b.CommandAt(0)
	if split.Kind() != CommandSplitCoins {
		t.Fatalf("kind = %v", split.Kind())
	}
	if split.SplitCoins() == nil {
		t.Error("SplitCoins payload is nil")
	}
	if split.MoveCall() != nil {
		t.Error("MoveCall payload on a split command")
	}
	if _, ok := split.Result(); !ok {
		t.Error("split produces no result")
	}

	merge := b.CommandAt(1)
	if merge.MergeCoins() == nil {
		t.Error("MergeCoins payload is nil")
	}
	if _, ok := merge.Result(); ok {
		t.Error("merge reports a result")
	}
}
