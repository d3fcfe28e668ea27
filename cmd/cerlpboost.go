package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/cerlpboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var cerlpboostTolerance float64
var cerlpboostNu float64
var cerlpboostFlags commonFlags

var cerlpboostCmd = &cobra.Command{
	Use:   "cerlpboost",
	Short: "Run CERLPBoost, a corrective (Frank-Wolfe style) ERLPBoost",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cerlpboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := cerlpboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := cerlpboost.New(train, overrideFloat(cerlpboostTolerance, cfg.Tolerance))
		b.Nu = overrideFloat(cerlpboostNu, cfg.Nu)

		h, err := runLoggedOrPlain(&cerlpboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("cerlpboost", h, train, test)
		logrus.Debugf("cerlpboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(cerlpboostCmd, &cerlpboostFlags)
	cerlpboostCmd.Flags().Float64Var(&cerlpboostTolerance, "tolerance", 0.01, "Target accuracy parameter")
	cerlpboostCmd.Flags().Float64Var(&cerlpboostNu, "nu", 1.0, "Soft-margin capping parameter, in [1, m]")
}
