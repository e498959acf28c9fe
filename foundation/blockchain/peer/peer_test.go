package peer_test

import (
	"errors"
	"testing"

	"github.com/rybka/fishledger/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host3"}, {Host: "host1"}, {Host: "host2"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				if !ps.Add(peer) {
					t.Fatalf("Test %s:\tShould be able to add peer %s.", tst.name, peer)
				}
			}

			for _, peer := range tst.peers {
				if ps.Add(peer) {
					t.Fatalf("Test %s:\tShould not add peer %s twice.", tst.name, peer)
				}
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			for i := 1; i < len(peers); i++ {
				if peers[i-1].Host > peers[i].Host {
					t.Fatalf("Test %s:\tShould get back the peers in sorted order: %v", tst.name, peers)
				}
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Normalize(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		err     error
	}

	tt := []table{
		{name: "scheme", address: "http://192.168.0.5:5000", host: "192.168.0.5:5000"},
		{name: "path", address: "http://192.168.0.5:5000/chain?x=1", host: "192.168.0.5:5000"},
		{name: "https", address: "https://node.example.com", host: "node.example.com"},
		{name: "bare", address: "localhost:8080", host: "localhost:8080"},
		{name: "spaces", address: "  localhost:8081 ", host: "localhost:8081"},
		{name: "empty", address: "", err: peer.ErrInvalidAddress},
		{name: "nohost", address: "http:///chain", err: peer.ErrInvalidAddress},
	}

	t.Log("Given the need to normalize peer addresses.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				host, err := peer.Normalize(tst.address)
				if tst.err != nil {
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get back %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get back %v.", success, testID, tst.err)
					return
				}

				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to normalize %q: %v", failed, testID, tst.address, err)
				}

				if host != tst.host {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, host)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.host)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right host.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right host: %s", success, testID, host)
			}

			t.Run(tst.name, f)
		}
	}
}
