package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should be created with the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, defaultNamespace)
				So(manager.Gatherer(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("loot_test"),
				WithHistogramBuckets([]float64{0.1, 0.5}),
				WithRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "loot_test")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5})
				So(manager.Gatherer(), ShouldEqual, registry)
			})
		})

		Convey("When creating with empty options", func() {
			manager := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithRegistry(nil))

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, defaultNamespace)
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.registry, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		manager := NewManager()
		path := filepath.Join(t.TempDir(), "lootctl.prom")

		Convey("When recording a run", func() {
			manager.ObserveFetch(OutcomeOK, 20*time.Millisecond)
			manager.ObserveFetch(OutcomeOK, 30*time.Millisecond)
			manager.ObserveFetch(OutcomeBadStatus, time.Millisecond)
			manager.DecodeFailure()
			manager.NameResolved("Item")
			manager.CacheHit()
			manager.CacheMiss()
			manager.CacheMiss()

			So(manager.WriteToTextfile(path), ShouldBeNil)
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			text := string(raw)

			Convey("Then the text file should carry every counter", func() {
				So(text, ShouldContainSubstring, `lootctl_fetch_requests_total{outcome="ok"} 2`)
				So(text, ShouldContainSubstring, `lootctl_fetch_requests_total{outcome="bad_status"} 1`)
				So(text, ShouldContainSubstring, "lootctl_fetch_duration_seconds_count 3")
				So(text, ShouldContainSubstring, "lootctl_decode_failures_total 1")
				So(text, ShouldContainSubstring, `lootctl_name_resolutions_total{variant="Item"} 1`)
				So(text, ShouldContainSubstring, "lootctl_cache_hits_total 1")
				So(text, ShouldContainSubstring, "lootctl_cache_misses_total 2")
			})
		})

		Convey("When writing without a path", func() {
			err := manager.WriteToTextfile("")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestNilManager(t *testing.T) {
	Convey("Given a nil manager", t, func() {
		var manager *Manager

		Convey("Then every method should be a no-op", func() {
			So(func() {
				manager.ObserveFetch(OutcomeTransportError, time.Second)
				manager.DecodeFailure()
				manager.NameResolved("Nothing")
				manager.CacheHit()
				manager.CacheMiss()
			}, ShouldNotPanic)
			So(manager.WriteToTextfile("ignored"), ShouldBeNil)
			So(manager.Gatherer(), ShouldNotBeNil)
		})
	})
}
