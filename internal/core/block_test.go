package core

import "testing"

func TestBlockInfoPublishOrder(t *testing.T) {
	var b BlockInfo
	if b.State() != StateInitialized {
		t.Fatalf("fresh block state = %v, want StateInitialized", b.State())
	}
	b.PublishAggregate(42)
	if b.State() != StateAggregateAvailable || b.Aggregate() != 42 {
		t.Fatalf("after PublishAggregate: state=%v aggregate=%d", b.State(), b.Aggregate())
	}
	b.PublishPrefix(100)
	if b.State() != StatePrefixAvailable || b.Prefix() != 100 {
		t.Fatalf("after PublishPrefix: state=%v prefix=%d", b.State(), b.Prefix())
	}
}

func TestLookBackAccumulatesUntilPrefixAvailable(t *testing.T) {
	temp := make([]BlockInfo, 5)
	temp[0].PublishPrefix(10)
	temp[1].PublishAggregate(3)
	temp[2].PublishAggregate(4)
	// temp[3] left StateInitialized would deadlock LookBack(temp, 4); not exercised here.

	got := LookBack(temp, 3)
	if got != 10+3+4 {
		t.Fatalf("LookBack(temp, 3) = %d, want %d", got, 10+3+4)
	}
}

func TestReset(t *testing.T) {
	temp := make([]BlockInfo, 3)
	temp[1].PublishPrefix(7)
	Reset(temp)
	for i, b := range temp {
		if b.State() != StateInitialized || b.Aggregate() != 0 || b.Prefix() != 0 {
			t.Fatalf("block %d not reset: state=%v aggregate=%d prefix=%d", i, b.State(), b.Aggregate(), b.Prefix())
		}
	}
}
