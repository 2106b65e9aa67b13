package main

import (
	"context"
	"fmt"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/promotion"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
	"github.com/Dahire100/FrontierLMS-sub005/store"
)

func (cli *commandLine) promote(ctx context.Context, args []string) error {
	promoteCmd := cli.newFlagSet("promote")
	class := promoteCmd.String("class", "", "The class to promote students from.")
	section := promoteCmd.String("section", "", "Only this section of the class.")
	toClass := promoteCmd.String("to", "", "The class to promote students to.")
	year := promoteCmd.String("year", "", "The academic year of the new class.")
	passMark := promoteCmd.Float64("pass", 50, "The minimum score to be promoted.")
	scoreField := promoteCmd.String("score", promotion.DefaultScoreField, "The student field holding the score.")
	promoteIDs := promoteCmd.String("promote", "", "Comma-separated ids to promote whatever their score.")
	retainIDs := promoteCmd.String("retain", "", "Comma-separated ids to retain whatever their score.")
	yes := promoteCmd.Bool("yes", false, "Do not ask for confirmation.")
	notify := promoteCmd.Bool("notify", false, "Email the report to the configured recipients.")

	if err := parse(promoteCmd, args); err != nil {
		return err
	}
	if *class == "" || *toClass == "" {
		promoteCmd.Usage()
		return errHelp
	}
	overrides, err := promotion.ParseOverrides(splitList(*promoteIDs), splitList(*retainIDs))
	if err != nil {
		return err
	}

	def, err := cli.catalog.Lookup(resources.Students)
	if err != nil {
		return err
	}
	st := cli.newStore(def)
	if err = st.Load(ctx, client.FilterState{"class": *class, "section": *section}); err != nil {
		return err
	}

	criteria := promotion.Criteria{ScoreField: *scoreField, PassMark: *passMark, ToClass: *toClass, AcademicYear: *year}
	plan := promotion.NewPlan(st.Items(), criteria, overrides)
	if err = plan.View().Render(cli.out); err != nil {
		return err
	}

	prompt := fmt.Sprintf("Promote %d students to class %s?", len(plan.IDs(promotion.Promoted)), *toClass)
	if !cli.confirm(*yes).Confirm(prompt) {
		return store.ErrNotConfirmed
	}

	report, err := promotion.Execute(ctx, cli.api, resources.PromoteEndpoint, plan)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, report)

	if *notify {
		if len(cli.conf.Mail.ReportRecipients) == 0 {
			cli.logger.Warn("no report recipients configured, promotion report not sent")
			return nil
		}
		msg, err := report.Email(cli.conf.Mail.ReportRecipients)
		if err != nil {
			return err
		}
		cli.mailer.SendMessages(msg)
		cli.mailer.Wait()
		fmt.Fprintf(cli.out, "Report sent to %d recipients\n", len(msg.To))
	}
	return nil
}
