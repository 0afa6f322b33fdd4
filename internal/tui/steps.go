package tui

import "github.com/Iron-Ham/focusgate/internal/onboarding"

type stepCopy struct {
	title string
	body  string
	done  string
}

var tourCopy = map[onboarding.Step]stepCopy{
	onboarding.StepWelcome: {
		title: "Welcome",
		body:  "focusgate limits how long and how often you visit distracting sites.",
		done:  "Let's set up your first limit.",
	},
	onboarding.StepAddSite: {
		title: "Add a site",
		body:  "Add a site with a daily time limit or a visit limit.",
		done:  "Site added.",
	},
	onboarding.StepGroupsTab: {
		title: "Groups",
		body:  "Groups share one limit across several sites.",
		done:  "You found the groups tab.",
	},
	onboarding.StepAddToGroup: {
		title: "Add to a group",
		body:  "Move a site into a group so their time counts together.",
		done:  "Site grouped.",
	},
	onboarding.StepMessagesTab: {
		title: "Messages",
		body:  "Messages are shown on the block page when a limit is reached.",
		done:  "You found the messages tab.",
	},
	onboarding.StepMessagesList: {
		title: "Your messages",
		body:  "Write a note to your future self, or pick one of the defaults.",
		done:  "Message saved.",
	},
	onboarding.StepCompletion: {
		title: "All set",
		body:  "Limits apply right away in every open tab.",
		done:  "Nicely done.",
	},
	onboarding.StepToolbarIcon: {
		title: "Toolbar icon",
		body:  "Pin the toolbar icon to add a quick limit for the current site.",
		done:  "That's the whole tour.",
	},
}

func stepTitle(s onboarding.Step) string {
	if c, ok := tourCopy[s]; ok {
		return c.title
	}
	return s.String()
}

func stepBody(s onboarding.Step) string {
	return tourCopy[s].body
}

// successMessage is what enter shows for the current step.
func successMessage(s onboarding.Step) string {
	if c, ok := tourCopy[s]; ok && c.done != "" {
		return c.done
	}
	return "Done."
}
