package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/gbm"
	"github.com/inference-sim/boostctl/learner/regressiontree"
)

var gbmMaxIter int
var gbmLoss string
var gbmMaxDepth int
var gbmCriterion string
var gbmFlags commonFlags

var gbmCmd = &cobra.Command{
	Use:   "gbm",
	Short: "Run GBM, gradient boosting for regression",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := gbmFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := gbmFlags.loadSamples()
		if err != nil {
			return err
		}

		b := gbm.New(train)
		b.MaxIter = gbmMaxIter
		switch overrideString(gbmLoss, cfg.Loss) {
		case "l1":
			b.LossKind = gbm.L1
		case "huber":
			b.LossKind = gbm.Huber
		default:
			b.LossKind = gbm.L2
		}

		wl := regressiontree.NewLearner()
		wl.MaxDepth = overrideInt(gbmMaxDepth, cfg.MaxDepth)
		wl.Criterion = overrideString(gbmCriterion, cfg.Criterion)

		h, err := runLoggedOrPlainRegression(&gbmFlags, b, wl, train, test)
		if err != nil {
			return err
		}

		reportRegression("gbm", h, train, test)
		logrus.Debugf("gbm: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(gbmCmd, &gbmFlags)
	gbmCmd.Flags().IntVar(&gbmMaxIter, "max-iter", 100, "Number of boosting rounds")
	gbmCmd.Flags().StringVar(&gbmLoss, "loss", "l2", "Per-round coefficient loss: l2, l1, or huber")
	gbmCmd.Flags().IntVar(&gbmMaxDepth, "max-depth", 3, "Maximum depth of each regression tree")
	gbmCmd.Flags().StringVar(&gbmCriterion, "criterion", regressiontree.CriterionSSE, "Tree split criterion: sse or mae")
}
