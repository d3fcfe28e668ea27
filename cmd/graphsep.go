package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/boostctl/booster/graphsep"
	"github.com/inference-sim/boostctl/learner/stump"
)

var graphsepFlags commonFlags

var graphsepCmd = &cobra.Command{
	Use:   "graphsep",
	Short: "Run GraphSepBoost, a majority-vote graph-separation booster",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := graphsepFlags.applyConfig(); err != nil {
			return err
		}
		train, test, err := graphsepFlags.loadSamples()
		if err != nil {
			return err
		}

		b := graphsep.New(train)
		h, err := runNaiveLoggedOrPlain(&graphsepFlags, b, stump.Learner{}, train, test)
		if err != nil {
			return err
		}

		reportClassificationNaive("graphsep", h, train, test)
		logrus.Debugf("graphsep: %d weak hypotheses", len(h.Hypotheses))
		return nil
	},
}

func init() {
	registerCommonFlags(graphsepCmd, &graphsepFlags)
}
