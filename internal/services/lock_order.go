package services

// lockOrder returns the two account ids in canonical lock-acquisition
// order (ascending internal id). Any two operations touching the same
// pair of accounts therefore acquire their row locks in the same
// sequence and cannot form a lock cycle. The swapped flag lets the
// caller restore logical source/destination roles after locking.
func lockOrder(firstID, secondID int64) (leftID, rightID int64, swapped bool) {
	if firstID <= secondID {
		return firstID, secondID, false
	}
	return secondID, firstID, true
}
