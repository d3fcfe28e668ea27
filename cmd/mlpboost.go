package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/mlpboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var mlpboostTolerance float64
var mlpboostNu float64
var mlpboostFlags commonFlags

var mlpboostCmd = &cobra.Command{
	Use:   "mlpboost",
	Short: "Run MLPBoost, a hybrid Frank-Wolfe/LP booster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := mlpboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := mlpboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := mlpboost.New(train, overrideFloat(mlpboostTolerance, cfg.Tolerance))
		b.Nu = overrideFloat(mlpboostNu, cfg.Nu)

		h, err := runLoggedOrPlain(&mlpboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("mlpboost", h, train, test)
		logrus.Debugf("mlpboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(mlpboostCmd, &mlpboostFlags)
	mlpboostCmd.Flags().Float64Var(&mlpboostTolerance, "tolerance", 0.01, "Target accuracy parameter")
	mlpboostCmd.Flags().Float64Var(&mlpboostNu, "nu", 1.0, "Soft-margin capping parameter, in [1, m]")
}
