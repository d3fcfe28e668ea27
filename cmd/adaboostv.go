package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/adaboostv"
	"github.com/inference-sim/boostctl/learner/stump"
)

var adaboostvTolerance float64
var adaboostvFlags commonFlags

var adaboostvCmd = &cobra.Command{
	Use:   "adaboostv",
	Short: "Run AdaBoostV (AdaBoost*), a margin-maximizing AdaBoost variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := adaboostvFlags.applyConfig()
		if err != nil {
			return err
		}
		train, test, err := adaboostvFlags.loadSamples()
		if err != nil {
			return err
		}

		b := adaboostv.New(train, overrideFloat(adaboostvTolerance, cfg.Tolerance))
		h, err := runLoggedOrPlain(&adaboostvFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassification("adaboostv", h, train, test)
		logrus.Debugf("adaboostv: %d weak hypotheses", len(h.Inner))
		return nil
	},
}

func init() {
	registerCommonFlags(adaboostvCmd, &adaboostvFlags)
	adaboostvCmd.Flags().Float64Var(&adaboostvTolerance, "tolerance", 0.01, "Target margin gap")
}
