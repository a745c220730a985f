package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{0.001, 0.01, 0.1}),
			WithCustomLabels(map[string]string{"env": "test"}),
		)

		Convey("When recording pipeline outcomes", func() {
			m.RecordGameEvaluated("rare")
			m.RecordGameEvaluated("rare")
			m.RecordGameEvaluated("default")
			m.RecordAnnouncement(ResultPosted)
			m.RecordSimilarityLookup(3 * time.Millisecond)
			m.UpdateDatasetRows(1200)
			m.UpdateLedgerRecords(7)
			m.RecordSeasonLoaded(OriginCache)
			m.RecordErrorByComponent("poster", "posting")

			Convey("Then the counters should reflect them", func() {
				So(testutil.ToFloat64(m.gamesEvaluated.WithLabelValues("rare")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.gamesEvaluated.WithLabelValues("default")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.announcements.WithLabelValues(ResultPosted)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.datasetRows), ShouldEqual, 1200)
				So(testutil.ToFloat64(m.ledgerRecords), ShouldEqual, 7)
				So(testutil.ToFloat64(m.seasonsLoaded.WithLabelValues(OriginCache)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorsByComponent.WithLabelValues("poster", "posting")), ShouldEqual, 1)
				So(testutil.CollectAndCount(m.similarityLookup), ShouldEqual, 1)
			})

			Convey("Then the textfile export should contain them", func() {
				path := filepath.Join(t.TempDir(), "sackigami.prom")
				So(m.WriteTextfile(path), ShouldBeNil)

				body, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(body), ShouldContainSubstring, `test_unit_games_evaluated_total{env="test",verdict="rare"} 2`)
				So(string(body), ShouldContainSubstring, `test_unit_dataset_rows{env="test"} 1200`)
			})
		})

		Convey("When the textfile directory does not exist", func() {
			err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrExportFailed), ShouldBeTrue)
		})
	})

	Convey("Given the global manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(func() {
			RecordGameEvaluated("never_happened")
			RecordAnnouncement(ResultSkipped)
			RecordSimilarityLookup(time.Millisecond)
			UpdateDatasetRows(1)
			RecordSeasonLoaded(OriginNetwork)
			RecordSeasonFetch(time.Second)
			UpdateLedgerRecords(1)
			RecordPostingLatency(time.Second)
			RecordPacerDelay(time.Minute)
			RecordErrorByComponent("source", "fetch")
		}, ShouldNotPanic)
	})
}
