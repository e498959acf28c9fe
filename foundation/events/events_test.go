package events_test

import (
	"testing"

	"github.com/rybka/fishledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out ledger events.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")

		evts.Send("blk[2]")

		for i, ch := range []chan string{ch1, ch2} {
			if msg := <-ch; msg != "blk[2]" {
				t.Fatalf("\t%s\tTest %d:\tShould receive the event, got %q.", failed, i, msg)
			}
			t.Logf("\t%s\tTest %d:\tShould receive the event.", success, i)
		}

		if err := evts.Release("one"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a channel: %v", failed, err)
		}
		if _, open := <-ch1; open {
			t.Fatalf("\t%s\tShould close a released channel.", failed)
		}
		t.Logf("\t%s\tShould close a released channel.", success)

		if err := evts.Release("one"); err == nil {
			t.Fatalf("\t%s\tShould not release an unknown id.", failed)
		}
		t.Logf("\t%s\tShould not release an unknown id.", success)

		evts.Shutdown()
		if _, open := <-ch2; open {
			t.Fatalf("\t%s\tShould close every channel on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}

func Test_Topics(t *testing.T) {
	t.Log("Given the need to narrow the event feed.")
	{
		evts := events.New()
		defer evts.Shutdown()

		mining := evts.Acquire("mining", "worker", "pow")
		all := evts.Acquire("all")

		evts.Send("state: NewTransaction: tx[bill:wisla:karas:1]")
		evts.Send("worker: runMiningOperation: MINING: started")

		if msg := <-mining; msg != "worker: runMiningOperation: MINING: started" {
			t.Fatalf("\t%s\tShould only receive the requested topics, got %q.", failed, msg)
		}
		t.Logf("\t%s\tShould only receive the requested topics.", success)

		if len(all) != 2 {
			t.Fatalf("\t%s\tShould receive every event without topics, got %d.", failed, len(all))
		}
		t.Logf("\t%s\tShould receive every event without topics.", success)

		for i := 0; i < 200; i++ {
			evts.Send("pow: Search: MINING: started")
		}

		subscribers, dropped := evts.Stats()
		if subscribers != 2 || dropped == 0 {
			t.Fatalf("\t%s\tShould count subscribers and dropped events: %d %d", failed, subscribers, dropped)
		}
		t.Logf("\t%s\tShould count subscribers and dropped events.", success)
	}
}
