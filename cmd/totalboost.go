package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/totalboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var totalboostTolerance float64
var totalboostFlags commonFlags

var totalboostCmd = &cobra.Command{
	Use:   "totalboost",
	Short: "Run TotalBoost, SoftBoost specialized to hard-margin capping (nu=1)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := totalboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := totalboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := totalboost.New(train, overrideFloat(totalboostTolerance, cfg.Tolerance))
		h, err := runLoggedOrPlain(&totalboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("totalboost", h, train, test)
		logrus.Debugf("totalboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(totalboostCmd, &totalboostFlags)
	totalboostCmd.Flags().Float64Var(&totalboostTolerance, "tolerance", 0.01, "Target accuracy parameter")
}
