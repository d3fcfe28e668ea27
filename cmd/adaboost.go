package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/adaboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var adaboostTolerance float64
var adaboostFlags commonFlags

var adaboostCmd = &cobra.Command{
	Use:   "adaboost",
	Short: "Run AdaBoost to a target training-error tolerance",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := adaboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := adaboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := adaboost.New(train, overrideFloat(adaboostTolerance, cfg.Tolerance))
		h, err := runLoggedOrPlain(&adaboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("adaboost", h, train, test)
		logrus.Debugf("adaboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(adaboostCmd, &adaboostFlags)
	adaboostCmd.Flags().Float64Var(&adaboostTolerance, "tolerance", 0.1, "Target training error")
}
