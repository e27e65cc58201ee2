package compiler

// matchParens pairs every '(' token with its ')' in one pass over the token
// list. The returned slice holds, for each parenthesis, the index of its
// partner and -1 for every other token.
func matchParens(tokens []Token) ([]int, error) {
	partner := make([]int, len(tokens))
	var open []int

	for i, tok := range tokens {
		partner[i] = -1
		switch tok.Type {
		case TokenLParen:
			open = append(open, i)
		case TokenRParen:
			if len(open) == 0 {
				return nil, errorf(tok.Pos, "unmatched ')'")
			}
			o := open[len(open)-1]
			open = open[:len(open)-1]
			partner[o] = i
			partner[i] = o
		}
	}

	if len(open) > 0 {
		return nil, errorf(tokens[open[len(open)-1]].Pos, "unclosed '('")
	}
	return partner, nil
}
