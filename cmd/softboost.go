package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/softboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var softboostTolerance float64
var softboostNu float64
var softboostFlags commonFlags

var softboostCmd = &cobra.Command{
	Use:   "softboost",
	Short: "Run SoftBoost, a soft-margin relative-entropy projection booster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := softboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := softboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := softboost.New(train, overrideFloat(softboostTolerance, cfg.Tolerance))
		b.Nu = overrideFloat(softboostNu, cfg.Nu)

		h, err := runLoggedOrPlain(&softboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("softboost", h, train, test)
		logrus.Debugf("softboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(softboostCmd, &softboostFlags)
	softboostCmd.Flags().Float64Var(&softboostTolerance, "tolerance", 0.01, "Target accuracy parameter")
	softboostCmd.Flags().Float64Var(&softboostNu, "nu", 1.0, "Soft-margin capping parameter, in [1, m]")
}
