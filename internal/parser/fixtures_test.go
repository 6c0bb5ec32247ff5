package parser

// Two real-format hands used across the parser and stats tests.
//
// handFoldLog ends on the turn after everyone folds to a bet; no river is
// dealt and the winner never shows.
const handFoldLog = `PokerStars Hand #249638850870:  Hold'em No Limit ($0.01/$0.02 USD) - 2024/03/26 22:02:04 CET [2024/03/26 17:02:04 ET]
Table 'Ostara III' 6-max Seat #2 is the button
Seat 1: sidneivl ($3.24 in chips)
Seat 2: Savva08 ($1.96 in chips)
Seat 3: captelie52 ($0.70 in chips)
Seat 4: PokerZhyte ($2 in chips)
Seat 5: alencarbrasil19 ($1.59 in chips)
Seat 6: Cazunga ($2 in chips)
captelie52: posts small blind $0.01
PokerZhyte: posts big blind $0.02
*** HOLE CARDS ***
Dealt to PokerZhyte [2c 7d]
alencarbrasil19: calls $0.02
Cazunga: folds
sidneivl: folds
Savva08: folds
captelie52: calls $0.01
PokerZhyte: checks
*** FLOP *** [Qh 9s 3d]
captelie52: checks
PokerZhyte: checks
alencarbrasil19: checks
*** TURN *** [Qh 9s 3d] [6s]
captelie52: checks
PokerZhyte: checks
alencarbrasil19: bets $0.18
captelie52: folds
PokerZhyte: folds
Uncalled bet ($0.18) returned to alencarbrasil19
alencarbrasil19 collected $0.06 from pot
alencarbrasil19: doesn't show hand
*** SUMMARY ***
Total pot $0.06 | Rake $0
Board [Qh 9s 3d 6s]
Seat 1: sidneivl folded before Flop (didn't bet)
Seat 2: Savva08 (button) folded before Flop (didn't bet)
Seat 3: captelie52 (small blind) folded on the Turn
Seat 4: PokerZhyte (big blind) folded on the Turn
Seat 5: alencarbrasil19 collected ($0.06)
Seat 6: Cazunga folded before Flop (didn't bet)
`

// handShowdownLog is a play-money multi-way pot with a preflop raise over
// limpers, a turn all-in raise and all-in call, an uncalled-bet return and a
// two-player showdown.
const handShowdownLog = `PokerStars Hand #249687478472:  Hold'em No Limit (50/100) - 2024/03/29 17:03:57 CET [2024/03/29 12:03:57 ET]
Table 'NLHE 50/100 6 Max' 6-max Seat #1 is the button
Seat 1: mrdee12 (9700 in chips)
Seat 2: carlitosbomba (9178 in chips)
Seat 3: PokerZhyte (10000 in chips)
Seat 4: haroldfried13 (12004 in chips)
Seat 5: gerdi2 (45153 in chips)
Seat 6: ArrAppA-Hi (11063 in chips)
carlitosbomba: posts small blind 50
PokerZhyte: posts big blind 100
*** HOLE CARDS ***
Dealt to PokerZhyte [Ah As]
haroldfried13: folds
gerdi2: calls 100
ArrAppA-Hi: calls 100
mrdee12: calls 100
carlitosbomba: calls 50
PokerZhyte: raises 400 to 500
gerdi2: folds
ArrAppA-Hi: calls 400
mrdee12: folds
carlitosbomba: calls 400
*** FLOP *** [8c 7c Jc]
carlitosbomba: checks
PokerZhyte: bets 1003
ArrAppA-Hi: calls 1003
carlitosbomba: calls 1003
*** TURN *** [8c 7c Jc] [9s]
carlitosbomba: bets 2000
PokerZhyte: calls 2000
ArrAppA-Hi: raises 7560 to 9560 and is all-in
carlitosbomba: calls 5675 and is all-in
PokerZhyte: folds
Uncalled bet (1885) returned to ArrAppA-Hi
*** RIVER *** [8c 7c Jc 9s] [8s]
*** SHOW DOWN ***
carlitosbomba: shows [Th 5h] (a straight, Seven to Jack)
ArrAppA-Hi: shows [Ac 6h] (a pair of Eights)
carlitosbomba collected 20846 from pot
*** SUMMARY ***
Total pot 20846 | Rake 0
Board [8c 7c Jc 9s 8s]
Seat 1: mrdee12 (button) folded before Flop
Seat 2: carlitosbomba (small blind) showed [Th 5h] and won (20846) with a straight, Seven to Jack
Seat 3: PokerZhyte (big blind) folded on the Turn
Seat 4: haroldfried13 folded before Flop (didn't bet)
Seat 5: gerdi2 folded before Flop
Seat 6: ArrAppA-Hi showed [Ac 6h] and lost with a pair of Eights
`
