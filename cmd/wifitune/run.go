// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wifitune/internal/adapter"
	"wifitune/internal/report"
	"wifitune/internal/sampling"
	"wifitune/internal/tuning"
	"wifitune/logger"
)

type app struct {
	*logger.Logger

	cfg    Config
	sys    *adapter.System
	prober adapter.Prober
}

func (a *app) artifact(name string) (string, error) {
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir '%s': %v", a.cfg.OutputDir, err)
	}
	return filepath.Join(a.cfg.OutputDir, name), nil
}

func (a *app) cmdBackup() error {
	path, err := a.artifact("snapshot.json")
	if err != nil {
		return err
	}

	snap := tuning.Backup(a.sys.Store, a.cfg.Adapter, a.Logger)
	if err := snap.Save(path); err != nil {
		return err
	}

	a.Infof("snapshot written to %s", path)
	return nil
}

func (a *app) cmdMonitor(outPath string) error {
	if outPath == "" {
		var err error
		if outPath, err = a.artifact("capture.csv"); err != nil {
			return err
		}
	}

	_, _, err := a.capture(outPath)
	return err
}

// capture runs one full sampling pass into path and returns its rows
// and summary.
func (a *app) capture(path string) (*report.CaptureSummary, []*sampling.SampleRow, error) {
	sink, err := sampling.NewCSVSink(path)
	if err != nil {
		return nil, nil, err
	}

	sampler := sampling.New(a.sys.Link, a.prober, a.Logger)

	_, runErr := sampler.Run(sink, a.cfg.Interval.Duration(), a.cfg.Duration.Duration(), a.cfg.Targets)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, nil, runErr
	}

	a.Infof("capture written to %s", path)

	rows, err := sampling.LoadRows(path)
	if err != nil {
		return nil, nil, err
	}

	summary, err := report.Summarize(rows, a.summaryOptions())
	if err != nil {
		return nil, nil, err
	}

	return summary, rows, nil
}

// chartFile is the visualization artifact: per-tick series for
// external renderers.
type chartFile struct {
	Pre  []report.ChartPoint `json:"pre"`
	Post []report.ChartPoint `json:"post,omitempty"`
}

func (a *app) saveChart(preRows, postRows []*sampling.SampleRow) error {
	path, err := a.artifact("chart.json")
	if err != nil {
		return err
	}

	chart := chartFile{Pre: report.ChartSeries(preRows), Post: report.ChartSeries(postRows)}

	bs, err := json.MarshalIndent(chart, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding chart series: %v", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("writing chart series '%s': %v", path, err)
	}

	a.Infof("chart series written to %s", path)
	return nil
}

func (a *app) summaryOptions() report.SummaryOptions {
	// a hole of more than two intervals means ticks went missing
	return report.SummaryOptions{StreakGap: a.cfg.Interval.Duration() * 2}
}

func (a *app) cmdApply() error {
	// back up first so a later restore is always possible
	path, err := a.artifact("snapshot.json")
	if err != nil {
		return err
	}

	snap := tuning.Backup(a.sys.Store, a.cfg.Adapter, a.Logger)
	if err := snap.Save(path); err != nil {
		return err
	}

	mgr := tuning.NewManager(a.sys.Store, a.Logger)

	changes, err := mgr.ApplyProfile(a.cfg.Profile, a.cfg.ForceWirelessMode, snap.Properties)
	if err != nil {
		return fmt.Errorf("profile apply failed (changes rolled back): %w", err)
	}

	a.Infof("profile applied: %d properties changed", len(changes))
	return nil
}

func (a *app) cmdRestore(snapshotPath string) error {
	if snapshotPath == "" {
		var err error
		if snapshotPath, err = a.artifact("snapshot.json"); err != nil {
			return err
		}
	}

	snap, err := tuning.LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	mgr := tuning.NewManager(a.sys.Store, a.Logger)

	if err := mgr.Restore(snap.Properties); err != nil {
		return fmt.Errorf("restore from '%s' failed: %w", snapshotPath, err)
	}

	a.Infof("restored %d properties from %s", len(snap.Properties), snapshotPath)
	return nil
}

func (a *app) cmdReport(prePath, postPath string) error {
	if prePath == "" {
		return fmt.Errorf("the report command requires --pre")
	}

	preRows, err := sampling.LoadRows(prePath)
	if err != nil {
		return err
	}
	pre, err := report.Summarize(preRows, a.summaryOptions())
	if err != nil {
		return err
	}

	if postPath == "" {
		if err := a.saveChart(preRows, nil); err != nil {
			return err
		}
		return printJSON(pre)
	}

	postRows, err := sampling.LoadRows(postPath)
	if err != nil {
		return err
	}
	post, err := report.Summarize(postRows, a.summaryOptions())
	if err != nil {
		return err
	}

	if err := a.saveChart(preRows, postRows); err != nil {
		return err
	}

	rep := report.Compare(pre, post, a.cfg.Thresholds)

	path, err := a.artifact("report.json")
	if err != nil {
		return err
	}
	if err := rep.Save(path); err != nil {
		return err
	}

	a.Noticef("verdict: %s (report written to %s)", rep.Verdict, path)

	return printJSON(rep)
}

// cmdRun is the full pipeline: backup, pre-change capture, apply,
// post-change capture, compare.
func (a *app) cmdRun() error {
	snapPath, err := a.artifact("snapshot.json")
	if err != nil {
		return err
	}
	prePath, err := a.artifact("pre.csv")
	if err != nil {
		return err
	}
	postPath, err := a.artifact("post.csv")
	if err != nil {
		return err
	}
	reportPath, err := a.artifact("report.json")
	if err != nil {
		return err
	}

	snap := tuning.Backup(a.sys.Store, a.cfg.Adapter, a.Logger)
	if err := snap.Save(snapPath); err != nil {
		return err
	}

	pre, preRows, err := a.capture(prePath)
	if err != nil {
		return err
	}

	mgr := tuning.NewManager(a.sys.Store, a.Logger)
	changes, err := mgr.ApplyProfile(a.cfg.Profile, a.cfg.ForceWirelessMode, snap.Properties)
	if err != nil {
		// the pre-change capture stays valid and on disk
		return fmt.Errorf("profile apply failed (changes rolled back, pre-change capture kept at %s): %w", prePath, err)
	}
	a.Infof("profile applied: %d properties changed", len(changes))

	post, postRows, err := a.capture(postPath)
	if err != nil {
		return err
	}

	if err := a.saveChart(preRows, postRows); err != nil {
		return err
	}

	rep := report.Compare(pre, post, a.cfg.Thresholds)
	if err := rep.Save(reportPath); err != nil {
		return err
	}

	a.Noticef("verdict: %s (report written to %s)", rep.Verdict, reportPath)

	return printJSON(rep)
}

func printJSON(v any) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}
