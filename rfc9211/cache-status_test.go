package rfc9211

import (
	"testing"
	"time"
)

func TestHit(t *testing.T) {
	cs := New("graphcache")
	cs.Hit()
	cs.TimeToLive(376 * time.Second)
	if s := cs.String(); s != "graphcache; hit; ttl=376" {
		t.Fatalf("Cache status is %s", s)
	}
}

func TestStaleValidated(t *testing.T) {
	cs := New("graphcache")
	cs.Forward(FwdStale)
	cs.ForwardStatus(304)
	cs.Detail("validated")
	if s := cs.String(); s != "graphcache; fwd=stale; fwd-status=304; detail=validated" {
		t.Fatalf("Cache status is %s", s)
	}
}

func TestNegativeTTL(t *testing.T) {
	cs := New("graphcache")
	cs.Forward(FwdUriMiss)
	cs.Stored()
	cs.TimeToLive(-412*time.Second - 300*time.Millisecond)
	if s := cs.String(); s != "graphcache; fwd=uri-miss; stored; ttl=-412" {
		t.Fatalf("Cache status is %s", s)
	}
}
