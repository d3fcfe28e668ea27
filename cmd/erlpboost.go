package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/erlpboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var erlpboostTolerance float64
var erlpboostNu float64
var erlpboostFlags commonFlags

var erlpboostCmd = &cobra.Command{
	Use:   "erlpboost",
	Short: "Run ERLPBoost, entropy-regularized LPBoost",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := erlpboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := erlpboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := erlpboost.New(train, overrideFloat(erlpboostTolerance, cfg.Tolerance))
		b.Nu = overrideFloat(erlpboostNu, cfg.Nu)

		h, err := runLoggedOrPlain(&erlpboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("erlpboost", h, train, test)
		logrus.Debugf("erlpboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(erlpboostCmd, &erlpboostFlags)
	erlpboostCmd.Flags().Float64Var(&erlpboostTolerance, "tolerance", 0.01, "Target accuracy parameter")
	erlpboostCmd.Flags().Float64Var(&erlpboostNu, "nu", 1.0, "Soft-margin capping parameter, in [1, m]")
}
