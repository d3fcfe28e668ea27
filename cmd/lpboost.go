package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/lpboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var lpboostTolerance float64
var lpboostCapping float64
var lpboostFlags commonFlags

var lpboostCmd = &cobra.Command{
	Use:   "lpboost",
	Short: "Run LPBoost, a soft-margin LP cutting-plane booster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := lpboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := lpboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := lpboost.New(train, overrideFloat(lpboostTolerance, cfg.Tolerance))
		b.Capping = overrideFloat(lpboostCapping, cfg.Nu)

		h, err := runLoggedOrPlain(&lpboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("lpboost", h, train, test)
		logrus.Debugf("lpboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(lpboostCmd, &lpboostFlags)
	lpboostCmd.Flags().Float64Var(&lpboostTolerance, "tolerance", 0.01, "LP optimality gap at which to stop")
	lpboostCmd.Flags().Float64Var(&lpboostCapping, "nu", 1.0, "Soft-margin capping parameter, in [1, m]")
}
