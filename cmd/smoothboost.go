package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/smoothboost"
	"github.com/inference-sim/boostctl/learner/stump"
)

var smoothboostKappa float64
var smoothboostGamma float64
var smoothboostFlags commonFlags

var smoothboostCmd = &cobra.Command{
	Use:   "smoothboost",
	Short: "Run SmoothBoost against a guaranteed weak-learner edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := smoothboostFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := smoothboostFlags.loadSamples()
		if err != nil {
			return err
		}

		b := smoothboost.New(train)
		b.Kappa = overrideFloat(smoothboostKappa, cfg.Tolerance)
		b.Gamma = overrideFloat(smoothboostGamma, cfg.Gamma)

		h, err := runLoggedOrPlain(&smoothboostFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("smoothboost", h, train, test)
		logrus.Debugf("smoothboost: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(smoothboostCmd, &smoothboostFlags)
	smoothboostCmd.Flags().Float64Var(&smoothboostKappa, "tolerance", 0.5, "Target training error (kappa)")
	smoothboostCmd.Flags().Float64Var(&smoothboostGamma, "gamma", 0.25, "Guaranteed weak-learner edge, in (0, 0.5)")
}
