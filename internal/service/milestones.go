package service

type Milestone struct {
	Threshold int
	Credits   int
}

// Profile-completion milestone thresholds and their one-time rewards.
var profileMilestones = []Milestone{
	{Threshold: 25, Credits: 10},
	{Threshold: 50, Credits: 15},
	{Threshold: 75, Credits: 25},
	{Threshold: 100, Credits: 50},
}

// MilestonesCrossed returns the milestones whose threshold lies in
// (oldPercentage, newPercentage]. Completion percentage only moves up under
// normal edits, so each milestone fires at most once per account; a
// decreasing percentage never claws credits back.
func MilestonesCrossed(oldPercentage, newPercentage int) []Milestone {
	var crossed []Milestone
	for _, m := range profileMilestones {
		if oldPercentage < m.Threshold && m.Threshold <= newPercentage {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
