package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/research"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

// commonFlags is the flag set every booster subcommand shares, grounded
// on spec section 6's CLI surface: sample location, target column,
// research-logger output, and a wall-clock budget.
type commonFlags struct {
	train     string
	test      string
	target    string
	svmlight  bool
	hasHeader bool
	logCSV    string
	timeLimit string
	config    string
}

func registerCommonFlags(cmd *cobra.Command, cf *commonFlags) {
	cmd.Flags().StringVar(&cf.train, "train", "", "Path to the training sample (CSV or SVMLight)")
	cmd.Flags().StringVar(&cf.test, "test", "", "Path to the test sample; defaults to --train")
	cmd.Flags().StringVar(&cf.target, "target", "target", "Target column name (CSV only)")
	cmd.Flags().BoolVar(&cf.svmlight, "svmlight", false, "Parse --train/--test as SVMLight instead of CSV")
	cmd.Flags().BoolVar(&cf.hasHeader, "has-header", true, "Whether the CSV's first line names its columns")
	cmd.Flags().StringVar(&cf.logCSV, "log-csv", "", "Write one research.Logger row per round to this CSV path")
	cmd.Flags().StringVar(&cf.timeLimit, "time-limit", "", "Wall-clock budget for the run (e.g. \"30s\"); empty means unbounded")
	cmd.Flags().StringVar(&cf.config, "config", "", "Optional YAML file overriding these flags")
	_ = cmd.MarkFlagRequired("train")
}

// applyConfig loads --config (when given) and lets its fields override
// the shared flags. The parsed config is returned so each subcommand can
// also fold in its own algorithm options (tolerance, nu, gamma, ...).
func (cf *commonFlags) applyConfig() (*RunConfig, error) {
	cfg, err := LoadRunConfig(cf.config)
	if err != nil {
		return nil, err
	}
	cf.train = overrideString(cf.train, cfg.Train)
	cf.test = overrideString(cf.test, cfg.Test)
	cf.target = overrideString(cf.target, cfg.Target)
	if cfg.SVMLight {
		cf.svmlight = true
	}
	if cfg.HasHeader != nil {
		cf.hasHeader = *cfg.HasHeader
	}
	cf.logCSV = overrideString(cf.logCSV, cfg.LogCSV)
	cf.timeLimit = overrideString(cf.timeLimit, cfg.TimeLimit)
	return cfg, nil
}

// loadSample reads path per the format selected by cf.svmlight.
func (cf *commonFlags) loadSample(path string) (sample.Sample, error) {
	if cf.svmlight {
		return sample.ReadSVMLight(path)
	}
	return sample.ReadCSV(path, cf.hasHeader, cf.target)
}

// loadSamples returns the training sample and, if --test was given, the
// test sample; otherwise the training sample is reused for both, which
// research.Logger's TrainLoss/TestLoss columns will then report as
// identical.
func (cf *commonFlags) loadSamples() (train, test sample.Sample, err error) {
	train, err = cf.loadSample(cf.train)
	if err != nil {
		return nil, nil, err
	}
	if cf.test == "" {
		return train, train, nil
	}
	test, err = cf.loadSample(cf.test)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func (cf *commonFlags) parseTimeLimit() (time.Duration, error) {
	if cf.timeLimit == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cf.timeLimit)
	if err != nil {
		return 0, fmt.Errorf("cmd: parsing --time-limit %q: %w", cf.timeLimit, err)
	}
	return d, nil
}

// zeroOneLoss is the classification loss research.Logger's TrainLoss/
// TestLoss columns report.
func zeroOneLoss(s sample.Sample, h *hypothesis.Combined) float64 {
	target := s.Target()
	wrong := 0
	for i := range target {
		if h.Predict(s, i) != target[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(target))
}

// zeroOneLossNaive is zeroOneLoss's NaiveAggregation analogue, used by
// graphsep.
func zeroOneLossNaive(s sample.Sample, h *hypothesis.NaiveAggregation) float64 {
	target := s.Target()
	wrong := 0
	for i := range target {
		if h.Predict(s, i) != target[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(target))
}

// squaredErrorLoss is the regression loss GBM reports.
func squaredErrorLoss(s sample.Sample, h *hypothesis.Combined) float64 {
	target := s.Target()
	sum := 0.0
	for i := range target {
		d := h.PredictValue(s, i) - target[i]
		sum += d * d
	}
	return sum / float64(len(target))
}

// expLossObjective is the exponential-loss objective AdaBoost-family
// boosters minimize, used as research.Logger's ObjectiveValue column.
func expLossObjective(s sample.Sample, h *hypothesis.Combined) float64 {
	target := s.Target()
	conf := h.BatchConfidence(s)
	sum := 0.0
	for i := range target {
		sum += math.Exp(-target[i] * conf[i])
	}
	return sum / float64(len(target))
}

// runLoggedOrPlain drives booster runs whose output is *hypothesis.Combined:
// with --log-csv set it routes through research.Logger (which additionally
// honors --time-limit); otherwise it uses the plain, unlogged driver.
func runLoggedOrPlain(cf *commonFlags, r research.Researcher, wl weaklearner.WeakLearner, train, test sample.Sample) (*hypothesis.Combined, error) {
	if cf.logCSV == "" {
		return booster.Run(r, wl)
	}
	limit, err := cf.parseTimeLimit()
	if err != nil {
		return nil, err
	}
	logger := &research.Logger{
		Objective: expLossObjective,
		Loss:      zeroOneLoss,
		Train:     train,
		Test:      test,
		TimeLimit: limit,
	}
	return logger.Run(r, wl, cf.logCSV)
}

// runLoggedOrPlainRegression is runLoggedOrPlain's regression analogue
// (GBM), scoring objective and loss both as squared error.
func runLoggedOrPlainRegression(cf *commonFlags, r research.Researcher, wl weaklearner.WeakLearner, train, test sample.Sample) (*hypothesis.Combined, error) {
	if cf.logCSV == "" {
		return booster.Run(r, wl)
	}
	limit, err := cf.parseTimeLimit()
	if err != nil {
		return nil, err
	}
	logger := &research.Logger{
		Objective: squaredErrorLoss,
		Loss:      squaredErrorLoss,
		Train:     train,
		Test:      test,
		TimeLimit: limit,
	}
	return logger.Run(r, wl, cf.logCSV)
}

// runNaiveLoggedOrPlain is runLoggedOrPlain's NaiveAggregation analogue
// (GraphSepBoost).
func runNaiveLoggedOrPlain(cf *commonFlags, r research.ResearcherNaive, wl weaklearner.WeakLearner, train, test sample.Sample) (*hypothesis.NaiveAggregation, error) {
	if cf.logCSV == "" {
		return booster.RunNaive(r, wl)
	}
	limit, err := cf.parseTimeLimit()
	if err != nil {
		return nil, err
	}
	logger := &research.LoggerNaive{
		Objective: zeroOneLossNaive,
		Loss:      zeroOneLossNaive,
		Train:     train,
		Test:      test,
		TimeLimit: limit,
	}
	return logger.Run(r, wl, cf.logCSV)
}

func reportClassification(name string, h *hypothesis.Combined, train, test sample.Sample) {
	logrus.Infof("%s: train loss %.4f, test loss %.4f", name, zeroOneLoss(train, h), zeroOneLoss(test, h))
}

func reportClassificationNaive(name string, h *hypothesis.NaiveAggregation, train, test sample.Sample) {
	logrus.Infof("%s: train loss %.4f, test loss %.4f", name, zeroOneLossNaive(train, h), zeroOneLossNaive(test, h))
}

func reportRegression(name string, h *hypothesis.Combined, train, test sample.Sample) {
	logrus.Infof("%s: train MSE %.4f, test MSE %.4f", name, squaredErrorLoss(train, h), squaredErrorLoss(test, h))
}
