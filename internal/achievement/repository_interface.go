package achievement

import "context"

type Repository interface {
	Counters(ctx context.Context, memberID int) (Counters, error)
	// Award inserts the codes the member does not hold yet and returns those
	// that were new.
	Award(ctx context.Context, memberID int, codes []string) ([]string, error)
	ListByMember(ctx context.Context, memberID int) ([]MemberAchievement, error)
}
